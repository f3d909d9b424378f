package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

type stubAuth struct {
	identity  *Identity
	resumeErr error
	notify    func(*Identity)
	unbound   bool
}

func (a *stubAuth) Resume(ctx context.Context) (*Identity, error) {
	return a.identity, a.resumeErr
}

func (a *stubAuth) OnChange(fn func(*Identity)) func() {
	a.notify = fn
	return func() { a.unbound = true }
}

func TestGateStartsUnresolved(t *testing.T) {
	gate := NewGate(zerolog.Nop())

	assert.False(t, gate.Resolved())
	_, ok := gate.Identity()
	assert.False(t, ok)

	_, err := gate.Require()
	assert.ErrorIs(t, err, apperrors.ErrSessionUnresolved)
}

func TestGateResolvesSignedIn(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	auth := &stubAuth{identity: &Identity{ID: 4, Email: "demo@fringe.app", Role: models.RoleStudent}}

	require.NoError(t, gate.Resolve(context.Background(), auth))
	assert.True(t, gate.Resolved())

	identity, err := gate.Require()
	require.NoError(t, err)
	assert.Equal(t, int64(4), identity.ID)
}

func TestGateResolvesSignedOut(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	require.NoError(t, gate.Resolve(context.Background(), &stubAuth{}))

	assert.True(t, gate.Resolved())
	_, err := gate.Require()
	assert.ErrorIs(t, err, apperrors.ErrSignedOut)
}

func TestGateResolveOnce(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	auth := &stubAuth{}
	require.NoError(t, gate.Resolve(context.Background(), auth))

	err := gate.Resolve(context.Background(), auth)
	assert.Error(t, err)
}

func TestGateResolveFailure(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	auth := &stubAuth{resumeErr: errors.New("keychain unavailable")}

	assert.Error(t, gate.Resolve(context.Background(), auth))
	assert.False(t, gate.Resolved())
}

func TestGateObservesSessionChanges(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	auth := &stubAuth{identity: &Identity{ID: 4}}
	require.NoError(t, gate.Resolve(context.Background(), auth))

	var seen []*Identity
	unobserve := gate.Observe(func(id *Identity) { seen = append(seen, id) })

	// sign-out pushes nil through the bound change feed
	auth.notify(nil)
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])
	_, err := gate.Require()
	assert.ErrorIs(t, err, apperrors.ErrSignedOut)

	auth.notify(&Identity{ID: 9})
	require.Len(t, seen, 2)
	identity, err := gate.Require()
	require.NoError(t, err)
	assert.Equal(t, int64(9), identity.ID)

	unobserve()
	auth.notify(nil)
	assert.Len(t, seen, 2, "unregistered observers stay quiet")
}

func TestGateCloseUnbinds(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	auth := &stubAuth{}
	require.NoError(t, gate.Resolve(context.Background(), auth))

	gate.Close()
	assert.True(t, auth.unbound)
}
