// Package gate tracks whether the local identity has been established.
package gate

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mmynk/lifesync/internal/models"
	"github.com/mmynk/lifesync/internal/reactive"
)

var (
	ErrEmptyName          = errors.New("display name must not be empty")
	ErrAlreadyInitialized = errors.New("identity is already set up")
)

// State is the gate's position. The only transition is Uninitialized to
// Initialized.
type State int

const (
	Uninitialized State = iota
	Initialized
)

func (s State) String() string {
	if s == Initialized {
		return "initialized"
	}
	return "uninitialized"
}

// Gate watches the identity cell and opens once it holds an id and a name.
type Gate struct {
	identity *reactive.Cell[models.User]
	newID    func() string

	mu    sync.Mutex
	state State
}

// Option configures a Gate.
type Option func(*Gate)

// WithIDGenerator overrides how setup generates identity IDs.
func WithIDGenerator(fn func() string) Option {
	return func(g *Gate) { g.newID = fn }
}

// NewUserID returns a fresh identity ID.
func NewUserID() string {
	return models.UserIDPrefix + uuid.NewString()
}

// New evaluates the identity once and then after every identity write.
func New(identity *reactive.Cell[models.User], opts ...Option) *Gate {
	g := &Gate{identity: identity, newID: NewUserID}
	for _, opt := range opts {
		opt(g)
	}
	g.check(identity.Get())
	identity.Subscribe(g.check)
	return g
}

func (g *Gate) check(u models.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Uninitialized && u.Complete() {
		g.state = Initialized
		slog.Debug("Gate opened", "user_id", u.ID)
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Initialized reports whether setup has completed.
func (g *Gate) Initialized() bool {
	return g.State() == Initialized
}

// CompleteSetup creates the local identity with the given display name and
// opens the gate.
func (g *Gate) CompleteSetup(name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, ErrEmptyName
	}

	// The check runs under the identity cell's lock so concurrent setups
	// cannot both write.
	user, err := g.identity.TryUpdate(func(prev models.User) (models.User, error) {
		if g.Initialized() || prev.Complete() {
			return prev, ErrAlreadyInitialized
		}
		return models.User{ID: g.newID(), Name: name}, nil
	})
	if err != nil {
		return models.User{}, err
	}
	slog.Info("Identity created", "user_id", user.ID, "name", user.Name)
	return user, nil
}
