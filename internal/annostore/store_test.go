package annostore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartmark/chartmark/internal/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "annotations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutGetRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	times := []int64{1700000000000, 1700000060000, 1700000120000}
	setID, err := store.Put(ctx, "deploys", times)
	require.NoError(t, err)
	require.NotEmpty(t, setID)

	set, err := store.Get(ctx, setID)
	require.NoError(t, err)
	assert.Equal(t, setID, set.ID)
	assert.Equal(t, "deploys", set.Name)
	assert.Equal(t, times, set.Times)

	byName, err := store.GetByName(ctx, "deploys")
	require.NoError(t, err)
	assert.Equal(t, set, byName)
}

func TestStore_EmptyTimes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	setID, err := store.Put(ctx, "quiet", nil)
	require.NoError(t, err)

	set, err := store.Get(ctx, setID)
	require.NoError(t, err)
	assert.Empty(t, set.Times)
}

func TestStore_DuplicateName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "deploys", []int64{1})
	require.NoError(t, err)

	_, err = store.Put(ctx, "deploys", []int64{2})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDuplicateSetName, errors.GetCode(err))
}

func TestStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing-id")
	require.Error(t, err)
	assert.Equal(t, errors.CodeSetNotFound, errors.GetCode(err))

	_, err = store.GetByName(ctx, "missing-name")
	require.Error(t, err)
	assert.Equal(t, errors.CodeSetNotFound, errors.GetCode(err))
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "first", []int64{1, 2})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.Put(ctx, "second", []int64{3})
	require.NoError(t, err)

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Newest first.
	assert.Equal(t, "second", infos[0].Name)
	assert.Equal(t, int64(1), infos[0].EventCount)
	assert.Equal(t, "first", infos[1].Name)
	assert.Equal(t, int64(2), infos[1].EventCount)
	assert.False(t, infos[0].CreatedAt.IsZero())
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	setID, err := store.Put(ctx, "deploys", []int64{1})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, setID))

	_, err = store.Get(ctx, setID)
	assert.Equal(t, errors.CodeSetNotFound, errors.GetCode(err))

	// Deleting again is not an error.
	require.NoError(t, store.Delete(ctx, setID))
}

func TestStore_CorruptPayloadDetected(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "annotations.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	setID, err := store.Put(ctx, "deploys", []int64{1, 2, 3})
	require.NoError(t, err)

	// Flip the payload underneath the checksum.
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE annotation_sets SET payload = X'00' WHERE set_id = ?`, setID)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = store.Get(ctx, setID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeCorruptPayload, errors.GetCode(err))
}
