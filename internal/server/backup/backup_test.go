package backup

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fakeUploader struct {
	keys []string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty upload")
	}
	f.keys = append(f.keys, key)
	return f.err
}

func seedVehicle(t *testing.T, db *sql.DB, id, ticket, plate string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO vehicles (id, ticket_code, plate, plate_upper, vehicle_type, entry_time, status)
		VALUES (?, ?, ?, UPPER(?), 'car', '2025-01-02T08:00:00.000000Z', 'active')`, id, ticket, plate, plate)
	require.NoError(t, err)
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func newManager(t *testing.T, db *sql.DB, opts ...Option) (*Manager, string) {
	dir := filepath.Join(t.TempDir(), "backups")
	clock := &tickingClock{t: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)}
	return NewManager(db, dir, append([]Option{WithClock(clock.Now)}, opts...)...), dir
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	m, dir := newManager(t, db)

	empty, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	plain, err := m.Create(ctx, false, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(plain.Path, ".db"))
	assert.Positive(t, plain.SizeBytes)

	gz, err := m.Create(ctx, true, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gz.Path, ".db.gz"))
	_, err = os.Stat(strings.TrimSuffix(gz.Path, ".gz"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "uncompressed copy removed")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, gz.Path, list[0].Path)
	assert.Equal(t, plain.Path, list[1].Path)
	assert.True(t, list[0].CreatedAt.Equal(gz.CreatedAt))
}

func TestCreate_PrunesBeyondRetention(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, testdb.New(t))

	var last string
	for range 4 {
		e, err := m.Create(ctx, true, 2)
		require.NoError(t, err)
		last = e.Path
	}

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, last, list[0].Path)
}

func TestCreate_Uploads(t *testing.T) {
	ctx := context.Background()
	up := &fakeUploader{}
	m, _ := newManager(t, testdb.New(t), WithUploader(up))

	e, err := m.Create(ctx, true, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"backups/" + filepath.Base(e.Path)}, up.keys)

	up.err = errors.New("bucket offline")
	_, err = m.Create(ctx, true, 0)
	require.NoError(t, err, "upload failure keeps the local backup")
}

func TestRestore_ReplacesOperationalTables(t *testing.T) {
	for _, compress := range []bool{false, true} {
		t.Run(map[bool]string{false: "plain", true: "gzip"}[compress], func(t *testing.T) {
			ctx := context.Background()
			db := testdb.New(t)
			m, _ := newManager(t, db)

			seedVehicle(t, db, "VH1", "TK1", "abc123")
			_, err := db.Exec(`INSERT INTO transactions (id, vehicle_id, amount, method, created_at)
				VALUES ('TX1', 'VH1', 10, 'cash', '2025-01-02T09:00:00.000000Z')`)
			require.NoError(t, err)

			e, err := m.Create(ctx, compress, 0)
			require.NoError(t, err)

			seedVehicle(t, db, "VH2", "TK2", "xyz999")
			_, err = db.Exec(`DELETE FROM transactions`)
			require.NoError(t, err)
			users := count(t, db, "users")

			require.NoError(t, m.Restore(ctx, filepath.Base(e.Path)))

			assert.Equal(t, 1, count(t, db, "vehicles"))
			assert.Equal(t, 1, count(t, db, "transactions"))
			assert.Equal(t, users, count(t, db, "users"))

			var upper string
			require.NoError(t, db.QueryRow(`SELECT plate_upper FROM vehicles WHERE id = 'VH1'`).Scan(&upper))
			assert.Equal(t, "ABC123", upper)

			var fk int
			require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
			assert.Equal(t, 1, fk)
		})
	}
}

func TestRestore_Rejects(t *testing.T) {
	ctx := context.Background()
	m, dir := newManager(t, testdb.New(t))
	_, err := m.Create(ctx, false, 0)
	require.NoError(t, err)

	err = m.Restore(ctx, "../park.db")
	assert.ErrorIs(t, err, common.ErrorValidation)

	err = m.Restore(ctx, "random.db")
	assert.ErrorIs(t, err, common.ErrorValidation)

	err = m.Restore(ctx, "parkdesk-20200101T000000.000000Z.db")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	bad := filepath.Join(dir, "parkdesk-20200101T000000.000000Z.db.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o600))
	err = m.Restore(ctx, filepath.Base(bad))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestParseName(t *testing.T) {
	ts, ok := parseName("parkdesk-20250102T100000.000000Z.db.gz")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), ts)

	_, ok = parseName("parkdesk-20250102T100000.000000Z.sql")
	assert.False(t, ok)
	_, ok = parseName("parkdesk-yesterday.db")
	assert.False(t, ok)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'/tmp/o''brien/x.db'`, quote("/tmp/o'brien/x.db"))
}
