package history

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/booksearch/db/kvdb"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func newTestService(t *testing.T, assert *require.Assertions) *Service {
	store, err := kvdb.New(newTestLogger(), filepath.Join(t.TempDir(), "history.db"))
	assert.NoError(err, "could not create kv database")
	t.Cleanup(func() {
		assert.NoError(store.Close(), "could not close kv database")
	})

	return New(newTestLogger(), store)
}

func TestRecordAndGet(t *testing.T) {
	assert := require.New(t)
	service := newTestService(t, assert)

	record, err := service.Record("テストデータ", 5, 1, 1500*time.Microsecond)
	assert.NoError(err)

	_, err = uuid.Parse(record.ID)
	assert.NoError(err, "record id should be a uuid")
	assert.Equal("1.5ms", record.Took)

	stored, err := service.Get(record.ID)
	assert.NoError(err)
	assert.Equal(record.ID, stored.ID)
	assert.Equal("テストデータ", stored.Query)
	assert.Equal(5, stored.Limit)
	assert.Equal(1, stored.Hits)
	assert.Equal("1.5ms", stored.Took)
	assert.True(record.CreatedAt.Equal(stored.CreatedAt))
}

func TestRecordsGetDistinctIDs(t *testing.T) {
	assert := require.New(t)
	service := newTestService(t, assert)

	first, err := service.Record("a", 5, 0, time.Millisecond)
	assert.NoError(err)
	second, err := service.Record("a", 5, 0, time.Millisecond)
	assert.NoError(err)

	assert.NotEqual(first.ID, second.ID)
}

func TestGetUnknownRecord(t *testing.T) {
	assert := require.New(t)
	service := newTestService(t, assert)

	_, err := service.Get(uuid.New().String())

	assert.True(errors.Is(err, kvdb.ErrNotFound))
}

type corruptStore struct {
	kvdb.DB
}

func (corruptStore) Get(bucket string, key string) (string, error) {
	return "{not json", nil
}

func TestGetCorruptRecord(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger(), corruptStore{})

	_, err := service.Get("id")

	assert.Error(err)
	assert.False(errors.Is(err, kvdb.ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	assert := require.New(t)
	service := newTestService(t, assert)

	records, err := service.List()
	assert.NoError(err)
	assert.NotNil(records)
	assert.Empty(records)

	first, err := service.Record("first", 5, 1, time.Millisecond)
	assert.NoError(err)
	time.Sleep(2 * time.Millisecond)
	second, err := service.Record("second", 5, 2, time.Millisecond)
	assert.NoError(err)

	records, err = service.List()
	assert.NoError(err)
	assert.Len(records, 2)
	assert.Equal(second.ID, records[0].ID)
	assert.Equal(first.ID, records[1].ID)
}

func TestListSkipsUnreadableRecords(t *testing.T) {
	assert := require.New(t)
	store, err := kvdb.New(newTestLogger(), filepath.Join(t.TempDir(), "history.db"))
	assert.NoError(err)
	t.Cleanup(func() { assert.NoError(store.Close()) })
	service := New(newTestLogger(), store)

	record, err := service.Record("kept", 5, 1, time.Millisecond)
	assert.NoError(err)
	assert.NoError(store.Set(kvdb.SearchesBucket, uuid.New().String(), "{not json"))

	records, err := service.List()
	assert.NoError(err)
	assert.Len(records, 1)
	assert.Equal(record.ID, records[0].ID)
}

func TestDelete(t *testing.T) {
	assert := require.New(t)
	service := newTestService(t, assert)

	record, err := service.Record("gone", 5, 0, time.Millisecond)
	assert.NoError(err)

	deleted, err := service.Delete(record.ID)
	assert.NoError(err)
	assert.Equal("gone", deleted.Query)

	_, err = service.Get(record.ID)
	assert.True(errors.Is(err, kvdb.ErrNotFound))

	_, err = service.Delete(record.ID)
	assert.True(errors.Is(err, kvdb.ErrNotFound), "deleting twice should report a missing record")

	records, err := service.List()
	assert.NoError(err)
	assert.Empty(records)
}

type failingKeysStore struct {
	kvdb.DB
}

func (failingKeysStore) GetAllKeys(bucket string) ([]string, error) {
	return nil, errors.New("store unavailable")
}

func TestListStoreFailure(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger(), failingKeysStore{})

	_, err := service.List()

	assert.Error(err)
}
