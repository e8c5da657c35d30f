package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackremap/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "sqlite" backend
// registered in init goes through newRepository and that Close delegates.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		got    Config
		closed bool
	)
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:    "sqlite",
		DSN:     "file:test.db?mode=memory",
		Table:   "tracks",
		Columns: []string{"id", "title"},
	})
	require.NoError(t, err)
	assert.Equal(t, Config{DSN: "file:test.db?mode=memory", Table: "tracks", Columns: []string{"id", "title"}}, got)

	repo.Close()
	assert.True(t, closed)
	assert.Contains(t, storage.ListKinds(), "sqlite")
}
