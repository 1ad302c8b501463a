package playqueue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit_RoundTrip(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1", "a2", "b1")
	path := filepath.Join(t.TempDir(), "state", "queue.txt")

	require.NoError(t, f.q.Commit(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a2\nb1\n", string(data))

	items, err := ReadCommitted(path, f.lib.coll.FileByID, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "b1"}, itemNames(snapshot(items)))
}

func TestCommit_OverwritesPrevious(t *testing.T) {
	f := newFixture(t, Modes{})
	path := filepath.Join(t.TempDir(), "queue.txt")
	f.push(t, false, "a1", "a2", "a3")
	require.NoError(t, f.q.Commit(path))

	f.q.Finished()
	f.q.Finished()
	require.NoError(t, f.q.Commit(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestCommit_UnwritablePath(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1", "a2")
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := f.q.Commit(filepath.Join(blocker, "queue.txt"))

	require.ErrorIs(t, err, ErrPersistence)
}

func TestReadCommitted_MissingFile(t *testing.T) {
	lib := newLibrary()

	items, err := ReadCommitted(filepath.Join(t.TempDir(), "none.txt"), lib.coll.FileByID, zerolog.Nop())

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReadCommitted_SkipsUnknownIDs(t *testing.T) {
	lib := newLibrary()
	path := filepath.Join(t.TempDir(), "queue.txt")
	require.NoError(t, os.WriteFile(path, []byte("c1\ngone\n\n  b2  \n"), 0o600))

	items, err := ReadCommitted(path, lib.coll.FileByID, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "b2"}, itemNames(snapshot(items)))
	for _, it := range items {
		assert.False(t, it.Repeat)
		assert.False(t, it.Planned)
	}
}

func TestReadCommitted_Unreadable(t *testing.T) {
	lib := newLibrary()

	_, err := ReadCommitted(t.TempDir(), lib.coll.FileByID, zerolog.Nop())

	require.ErrorIs(t, err, ErrPersistence)
}
