package repositories

import (
	"log/slog"
	"taskmarket/storage"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.BadgerStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	store := storage.NewBadgerStore(db, slog.Default(), func() time.Time { return time.Now().UTC() }, 10*time.Millisecond)
	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close()
	})
	return store
}
