package session

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftmill/draftmill-go/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_TokenRoundtrip(t *testing.T) {
	s := setupTestStore(t)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.SetToken("tok-abc"))
	tok, err = s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	// Overwrite wins.
	require.NoError(t, s.SetToken("tok-new"))
	tok, err = s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-new", tok)
}

func TestStore_UserRoundtrip(t *testing.T) {
	s := setupTestStore(t)

	u, err := s.User()
	require.NoError(t, err)
	assert.Nil(t, u)

	want := models.User{ID: "u1", Email: "writer@example.com", Plan: models.PlanPro}
	require.NoError(t, s.SetUser(want))

	u, err = s.User()
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, want, *u)
}

func TestStore_Clear(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetUser(models.User{ID: "u1", Email: "a@b.c", Plan: models.PlanFree}))

	require.NoError(t, s.Clear())

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
	u, err := s.User()
	require.NoError(t, err)
	assert.Nil(t, u)

	// Clearing an already-empty store is a no-op.
	require.NoError(t, s.Clear())
}

func TestOpen_CreatesFileAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.SetToken("tok"))
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("persisted"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()
	tok, err := s2.Token()
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) GoTo(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func TestInvalidator_ClearsAndNavigates(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetUser(models.User{ID: "u1", Email: "a@b.c", Plan: models.PlanFree}))

	nav := &recordingNavigator{}
	inv := NewInvalidator(s, nav)

	require.NoError(t, inv.Invalidate())

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
	u, err := s.User()
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestInvalidator_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SetToken("tok"))

	nav := &recordingNavigator{}
	inv := NewInvalidator(s, nav)

	require.NoError(t, inv.Invalidate())
	require.NoError(t, inv.Invalidate())

	// Same end state as invoking once: session empty, login is the target.
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Equal(t, []string{LoginPath, LoginPath}, nav.paths)
}
