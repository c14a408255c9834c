// Package service is the collaborator-facing API of the organizer.
//
// The Organizer owns the application state context, the initialization gate
// and the linking exchange. Until setup has completed, every operation other
// than CompleteSetup fails with ErrNotInitialized.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/lifesync/internal/gate"
	"github.com/mmynk/lifesync/internal/linking"
	"github.com/mmynk/lifesync/internal/models"
	"github.com/mmynk/lifesync/internal/state"
	"github.com/mmynk/lifesync/internal/storage"
)

var (
	ErrNotInitialized = errors.New("set up your identity first")
	ErrNotFound       = errors.New("not found")
)

// LinkRecorder receives the outcome of every link attempt.
type LinkRecorder interface {
	LinkAttempt(result string)
}

// Organizer is the root component.
type Organizer struct {
	state *state.State
	gate  *gate.Gate
	links LinkRecorder
	newID func() string
	now   func() time.Time
}

// Option configures an Organizer.
type Option func(*organizerConfig)

type organizerConfig struct {
	links   LinkRecorder
	newID   func() string
	newUser func() string
	now     func() time.Time
}

// WithLinkRecorder reports link outcomes to r.
func WithLinkRecorder(r LinkRecorder) Option {
	return func(c *organizerConfig) { c.links = r }
}

// WithIDGenerator overrides how entity IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *organizerConfig) { c.newID = fn }
}

// WithUserIDGenerator overrides how the identity ID is generated at setup.
func WithUserIDGenerator(fn func() string) Option {
	return func(c *organizerConfig) { c.newUser = fn }
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(fn func() time.Time) Option {
	return func(c *organizerConfig) { c.now = fn }
}

// New loads the state from kv and evaluates the gate.
func New(ctx context.Context, kv *storage.KV, opts ...Option) *Organizer {
	cfg := organizerConfig{
		newID:   uuid.NewString,
		newUser: gate.NewUserID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := state.Open(ctx, kv)
	return &Organizer{
		state: st,
		gate:  gate.New(st.Identity, gate.WithIDGenerator(cfg.newUser)),
		links: cfg.links,
		newID: cfg.newID,
		now:   cfg.now,
	}
}

// Initialized reports whether the identity has been set up.
func (o *Organizer) Initialized() bool {
	return o.gate.Initialized()
}

// CompleteSetup creates the local identity with the given display name.
func (o *Organizer) CompleteSetup(name string) (models.User, error) {
	return o.gate.CompleteSetup(name)
}

// State returns the entity stores once the gate is open.
func (o *Organizer) State() (*state.State, error) {
	if !o.gate.Initialized() {
		return nil, ErrNotInitialized
	}
	return o.state, nil
}

// Identity returns the local identity.
func (o *Organizer) Identity() (models.User, error) {
	st, err := o.State()
	if err != nil {
		return models.User{}, err
	}
	return st.Identity.Get(), nil
}

// RenameUser changes the display name. The identity ID never changes.
func (o *Organizer) RenameUser(name string) (models.User, error) {
	st, err := o.State()
	if err != nil {
		return models.User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, gate.ErrEmptyName
	}

	user := st.Identity.Update(func(prev models.User) models.User {
		prev.Name = name
		return prev
	})
	slog.Info("Display name changed", "user_id", user.ID, "name", user.Name)
	return user, nil
}

// ExportCode returns the token another instance needs to link with us.
func (o *Organizer) ExportCode() (string, error) {
	user, err := o.Identity()
	if err != nil {
		return "", err
	}
	return linking.Export(user), nil
}

// LinkPartner imports a token and appends the resulting partner.
// On any error the partner list is left unchanged.
func (o *Organizer) LinkPartner(token string) (models.Partner, error) {
	st, err := o.State()
	if err != nil {
		return models.Partner{}, err
	}

	var partner models.Partner
	local := st.Identity.Get()
	_, importErr := st.Partners.TryUpdate(func(prev []models.Partner) ([]models.Partner, error) {
		p, err := linking.Import(token, local, prev)
		if err != nil {
			return nil, err
		}
		partner = p
		return appendCopy(prev, p), nil
	})

	o.recordLink(importErr)
	if importErr != nil {
		slog.Warn("LinkPartner failed", "error", importErr)
		return models.Partner{}, importErr
	}

	slog.Info("Partner linked", "partner_id", partner.ID, "name", partner.Name)
	return partner, nil
}

func (o *Organizer) recordLink(err error) {
	if o.links == nil {
		return
	}
	var (
		decodeErr     *linking.DecodeError
		validationErr *linking.ValidationError
	)
	switch {
	case err == nil:
		o.links.LinkAttempt("ok")
	case errors.As(err, &decodeErr):
		o.links.LinkAttempt("decode-error")
	case errors.As(err, &validationErr):
		o.links.LinkAttempt(string(validationErr.Reason))
	default:
		o.links.LinkAttempt("error")
	}
}

// Partners returns the linked partners in link order.
func (o *Organizer) Partners() ([]models.Partner, error) {
	st, err := o.State()
	if err != nil {
		return nil, err
	}
	return st.Partners.Get(), nil
}

// UnlinkPartner removes a partner by ID.
func (o *Organizer) UnlinkPartner(id string) error {
	st, err := o.State()
	if err != nil {
		return err
	}
	if err := removeByID(st.Partners, id, func(p models.Partner) string { return p.ID }); err != nil {
		return err
	}
	slog.Info("Partner unlinked", "partner_id", id)
	return nil
}
