package models

import "strings"

// UserIDPrefix is prepended to every generated identity ID.
const UserIDPrefix = "user-"

// User represents the identity of the local operator.
//
// The ID is generated once during setup and never changes afterwards.
// Only the display name may be edited.
type User struct {
	// ID is the globally unique identifier ("user-" followed by a UUID).
	ID string `json:"id"`

	// Name is the display name chosen during setup.
	Name string `json:"name"`
}

// Complete reports whether both the ID and the name are set.
func (u User) Complete() bool {
	return strings.TrimSpace(u.ID) != "" && strings.TrimSpace(u.Name) != ""
}

// Partner is a remote operator's identity as known locally.
// It carries no live connection, only a snapshot of id and name.
type Partner = User

// HasPartner reports whether a partner with the given ID is present.
func HasPartner(partners []Partner, id string) bool {
	for _, p := range partners {
		if p.ID == id {
			return true
		}
	}
	return false
}
