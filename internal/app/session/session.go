// Package session owns the authenticated identity for one app launch.
// Every data-fetching component reads the gate to decide what is fetchable
// and attributable; fetching before the gate has resolved is forbidden.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

// Identity is the signed-in user as seen by the rest of the app
type Identity struct {
	ID        int64
	Email     string
	FullName  string
	Role      models.Role
	AvatarURL string
}

// Authenticator restores and reports session state. Implemented by the auth
// service.
type Authenticator interface {
	// Resume restores a persisted session, returning nil when nobody is
	// signed in.
	Resume(ctx context.Context) (*Identity, error)

	// OnChange registers for out-of-band session changes (sign-in/out).
	// The returned function unregisters the callback.
	OnChange(fn func(*Identity)) func()
}

// Gate holds the current identity and the resolved flag. There is exactly
// one gate per app launch, owned by the client bootstrap.
type Gate struct {
	mu        sync.RWMutex
	identity  *Identity
	resolved  bool
	observers map[int]func(*Identity)
	nextObs   int
	unbind    func()
	logger    zerolog.Logger
}

// NewGate creates an unresolved gate
func NewGate(logger zerolog.Logger) *Gate {
	return &Gate{
		observers: make(map[int]func(*Identity)),
		logger:    logger,
	}
}

// Resolve restores session state from the authenticator and binds the gate
// to its change events. It may be called once; later calls fail.
func (g *Gate) Resolve(ctx context.Context, auth Authenticator) error {
	g.mu.Lock()
	if g.resolved {
		g.mu.Unlock()
		return apperrors.NewConflictError("session already resolved")
	}
	g.mu.Unlock()

	identity, err := auth.Resume(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.identity = identity
	g.resolved = true
	g.unbind = auth.OnChange(g.replace)
	g.mu.Unlock()

	if identity != nil {
		g.logger.Info().Int64("userId", identity.ID).Str("role", string(identity.Role)).Msg("Session resolved")
	} else {
		g.logger.Info().Msg("Session resolved with no identity")
	}
	return nil
}

// Resolved reports whether the gate has resolved
func (g *Gate) Resolved() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolved
}

// Identity returns the current identity. ok is false when nobody is signed
// in or the gate has not resolved yet.
func (g *Gate) Identity() (Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.identity == nil {
		return Identity{}, false
	}
	return *g.identity, true
}

// Require returns the current identity or an error suitable for guarded
// fetch paths.
func (g *Gate) Require() (Identity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.resolved {
		return Identity{}, apperrors.ErrSessionUnresolved
	}
	if g.identity == nil {
		return Identity{}, apperrors.ErrSignedOut
	}
	return *g.identity, nil
}

// Observe registers an observer called with the new identity (or nil) on
// every session change. The returned function unregisters it.
func (g *Gate) Observe(fn func(*Identity)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextObs
	g.nextObs++
	g.observers[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.observers, id)
	}
}

// replace swaps the held identity and notifies observers. Observers seeing
// nil must route back to sign-in.
func (g *Gate) replace(identity *Identity) {
	g.mu.Lock()
	g.identity = identity
	observers := make([]func(*Identity), 0, len(g.observers))
	for _, fn := range g.observers {
		observers = append(observers, fn)
	}
	g.mu.Unlock()

	if identity != nil {
		g.logger.Info().Int64("userId", identity.ID).Msg("Session replaced")
	} else {
		g.logger.Info().Msg("Session cleared")
	}

	for _, fn := range observers {
		fn(identity)
	}
}

// Close unbinds the gate from the authenticator
func (g *Gate) Close() {
	g.mu.Lock()
	unbind := g.unbind
	g.unbind = nil
	g.mu.Unlock()
	if unbind != nil {
		unbind()
	}
}
