// Package linking implements the partner-linking exchange.
//
// An instance exports its identity as a token, the token travels out of band
// (copy and paste, a chat message), and the receiving instance imports it to
// record a Partner. The token is plain JSON holding exactly id and name: no
// envelope, checksum, signature or version.
package linking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mmynk/lifesync/internal/models"
)

// Reason names why a decoded token was rejected.
type Reason string

const (
	ReasonMalformed Reason = "malformed-identity"
	ReasonSelfLink  Reason = "self-link"
	ReasonDuplicate Reason = "duplicate-id"
)

// DecodeError reports a token that is not a well-formed JSON object.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("partner code is not valid: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports a decoded token that cannot be linked.
type ValidationError struct {
	Reason Reason
	ID     string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonSelfLink:
		return "cannot link with yourself"
	case ReasonDuplicate:
		return fmt.Sprintf("already linked with %s", e.ID)
	default:
		return "partner code is missing an id or a name"
	}
}

// token is the wire shape of an exported identity.
type token struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Export encodes identity as a shareable token.
// The same identity always yields the same token.
func Export(identity models.User) string {
	// Marshalling two strings cannot fail.
	b, _ := json.Marshal(token{ID: identity.ID, Name: identity.Name})
	return string(b)
}

// Import decodes a token received from another instance and validates it
// against the local identity and the partners already linked.
// On success it returns the Partner to append; it never modifies existing.
func Import(raw string, local models.User, existing []models.Partner) (models.Partner, error) {
	t, err := decode(raw)
	if err != nil {
		return models.Partner{}, &DecodeError{Err: err}
	}

	// Fields are trimmed once; checks and the stored partner use the trimmed values.
	id, name := strings.TrimSpace(t.ID), strings.TrimSpace(t.Name)
	if id == "" || name == "" {
		return models.Partner{}, &ValidationError{Reason: ReasonMalformed, ID: id}
	}
	if id == local.ID {
		return models.Partner{}, &ValidationError{Reason: ReasonSelfLink, ID: id}
	}
	if models.HasPartner(existing, id) {
		return models.Partner{}, &ValidationError{Reason: ReasonDuplicate, ID: id}
	}

	return models.Partner{ID: id, Name: name}, nil
}

func decode(raw string) (token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return token{}, fmt.Errorf("empty code")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	var t token
	if err := dec.Decode(&t); err != nil {
		return token{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return token{}, fmt.Errorf("unexpected data after partner code")
	}
	return t, nil
}
