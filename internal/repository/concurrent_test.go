package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/polymath/internal/db"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_KVReadDuringWrite checks that readers see whole
// values while a writer keeps replacing them.
func TestConcurrentAccess_KVReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	kv := NewSQLiteKVRepo(database)

	require.NoError(t, kv.Set(ctx, "progress", []byte(`{"n":-1}`)))

	var wg sync.WaitGroup

	// Writer goroutine: replace the value 20 times.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := kv.Set(ctx, "progress", []byte(fmt.Sprintf(`{"n":%d}`, i))); err != nil {
				t.Errorf("writer: set %d: %v", i, err)
				return
			}
		}
	}()

	// Reader goroutines: every read must be a complete value.
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				entry, err := kv.Get(ctx, "progress")
				if err != nil {
					t.Errorf("reader %d: get: %v", reader, err)
					return
				}
				if len(entry.Value) == 0 || entry.Value[len(entry.Value)-1] != '}' {
					t.Errorf("reader %d: torn value %q", reader, entry.Value)
				}
			}
		}(r)
	}

	wg.Wait()

	entry, err := kv.Get(ctx, "progress")
	require.NoError(t, err)
	assert.Equal(t, `{"n":19}`, string(entry.Value))
}

// TestConcurrentAccess_SyncLogAppends checks that concurrent appends from
// auto-sync and manual pushes all land.
func TestConcurrentAccess_SyncLogAppends(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	log := NewSQLiteSyncLogRepo(database)

	const writers, perWriter = 4, 5
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				at := base.Add(time.Duration(writer*perWriter+i) * time.Second)
				err := log.Append(ctx, &domain.SyncRecord{
					Direction:  domain.SyncPush,
					State:      domain.SyncSynced,
					Message:    fmt.Sprintf("writer %d push %d", writer, i),
					StartedAt:  at,
					FinishedAt: at,
				})
				if err != nil {
					t.Errorf("writer %d: append %d: %v", writer, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	recs, err := log.ListRecent(ctx, writers*perWriter+10)
	require.NoError(t, err)
	assert.Len(t, recs, writers*perWriter)
	for i := 1; i < len(recs); i++ {
		assert.Less(t, recs[i].ID, recs[i-1].ID, "newest first")
	}
}
