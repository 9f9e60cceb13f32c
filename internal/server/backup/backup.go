// Package backup writes, lists, prunes and restores copies of the store
// file, and schedules them with cron.
package backup

import (
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/filex"
	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
)

const (
	filePrefix = "parkdesk-"
	fileLayout = "20060102T150405.000000Z"
	extDB      = ".db"
	extGzip    = ".db.gz"
)

// RestoreTables are replaced by Restore, parents first. Users, roles and
// settings are never restored.
var RestoreTables = []string{"vehicles", "transactions", "shift_closures", "custom_tariffs", "barcodes"}

// Uploader receives a copy of every backup file.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte) error
}

type Option func(*Manager)

func WithUploader(u Uploader) Option {
	return func(m *Manager) { m.uploader = u }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithClock(c timex.Clock) Option {
	return func(m *Manager) { m.now = c }
}

// Manager owns the backup directory of one store.
type Manager struct {
	db       *sql.DB
	dir      string
	uploader Uploader
	logger   logging.Logger
	now      timex.Clock
}

func NewManager(db *sql.DB, dir string, opts ...Option) *Manager {
	m := &Manager{db: db, dir: dir, logger: logging.Nop(), now: timex.SystemClock}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("module", "backup")
	return m
}

// Create snapshots the store with VACUUM INTO, optionally gzips it, uploads
// it when an Uploader is set and prunes files beyond retention (0 keeps all).
// An upload failure is logged; the local file is still a valid backup.
func (m *Manager) Create(ctx context.Context, compress bool, retention int) (*models.BackupEntry, error) {
	dir, err := filex.EnsureDir(m.dir)
	if err != nil {
		return nil, err
	}
	created := m.now()
	path := filepath.Join(dir, filePrefix+created.UTC().Format(fileLayout)+extDB)

	if _, err := m.db.ExecContext(ctx, `VACUUM INTO `+quote(path)); err != nil {
		return nil, fmt.Errorf("vacuum into %s: %w", path, err)
	}
	if compress {
		gz := strings.TrimSuffix(path, extDB) + extGzip
		if err := gzipFile(path, gz); err != nil {
			_ = os.Remove(gz)
			return nil, err
		}
		if err := os.Remove(path); err != nil {
			return nil, err
		}
		path = gz
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	entry := &models.BackupEntry{Path: path, CreatedAt: created, SizeBytes: fi.Size()}
	m.logger.Info(ctx, "backup created", "path", path, "size", entry.SizeBytes)

	if m.uploader != nil {
		if err := m.upload(ctx, path); err != nil {
			m.logger.Error(ctx, "backup upload failed", "path", path, "error", err)
		}
	}
	if retention > 0 {
		if err := m.prune(ctx, retention); err != nil {
			m.logger.Warn(ctx, "backup prune failed", "error", err)
		}
	}
	return entry, nil
}

func (m *Manager) upload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.uploader.Upload(ctx, "backups/"+filepath.Base(path), data)
}

// List returns the backup files, newest first.
func (m *Manager) List(ctx context.Context) ([]models.BackupEntry, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []models.BackupEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	dir, err := filepath.Abs(m.dir)
	if err != nil {
		return nil, err
	}

	out := []models.BackupEntry{}
	for _, e := range entries {
		created, ok := parseName(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, models.BackupEntry{Path: filepath.Join(dir, e.Name()), CreatedAt: created, SizeBytes: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Manager) prune(ctx context.Context, keep int) error {
	list, err := m.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range list[min(keep, len(list)):] {
		if err := os.Remove(e.Path); err != nil {
			return err
		}
		m.logger.Debug(ctx, "backup pruned", "path", e.Path)
	}
	return nil
}

// Restore replaces RestoreTables with the contents of a backup file from
// the backup directory. Only columns present in both schemas are copied, so
// files written by older releases restore too.
func (m *Manager) Restore(ctx context.Context, name string) error {
	path, ok := filex.Within(m.dir, name)
	if !ok {
		return fmt.Errorf("%w: backup must be inside the backup directory", common.ErrorValidation)
	}
	if _, ok := parseName(filepath.Base(path)); !ok {
		return fmt.Errorf("%w: not a backup file: %s", common.ErrorValidation, filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: backup not found", common.ErrorNotFound)
		}
		return err
	}

	src := path
	if strings.HasSuffix(path, extGzip) {
		tmp, err := os.CreateTemp(filepath.Dir(path), ".restore-*.db")
		if err != nil {
			return err
		}
		tmp.Close()
		defer os.Remove(tmp.Name())
		if err := gunzipFile(path, tmp.Name()); err != nil {
			return err
		}
		src = tmp.Name()
	}

	if err := m.restoreFrom(ctx, src); err != nil {
		return err
	}
	m.logger.Info(ctx, "backup restored", "path", path)
	return nil
}

// restoreFrom attaches src on a pinned connection with foreign keys off,
// copies the tables in one transaction and checks references before commit.
func (m *Manager) restoreFrom(ctx context.Context, src string) (err error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("pin connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, e := conn.ExecContext(context.WithoutCancel(ctx), `PRAGMA foreign_keys = ON`); e != nil && err == nil {
			err = fmt.Errorf("enable foreign keys: %w", e)
		}
	}()

	if _, err := conn.ExecContext(ctx, `ATTACH DATABASE `+quote(src)+` AS snapshot`); err != nil {
		return fmt.Errorf("attach backup: %w", err)
	}
	defer func() {
		if _, e := conn.ExecContext(context.WithoutCancel(ctx), `DETACH DATABASE snapshot`); e != nil && err == nil {
			err = fmt.Errorf("detach backup: %w", e)
		}
	}()

	return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := len(RestoreTables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, `DELETE FROM main.`+RestoreTables[i]); err != nil {
				return fmt.Errorf("clear %s: %w", RestoreTables[i], err)
			}
		}
		for _, table := range RestoreTables {
			cols, err := sharedColumns(ctx, tx, table)
			if err != nil {
				return err
			}
			list := strings.Join(cols, ", ")
			q := `INSERT INTO main.` + table + ` (` + list + `) SELECT ` + list + ` FROM snapshot.` + table
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("copy %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE main.vehicles SET plate_upper = UPPER(TRIM(plate))`); err != nil {
			return fmt.Errorf("normalise plates: %w", err)
		}
		return dbx.CheckForeignKeys(ctx, tx)
	})
}

func sharedColumns(ctx context.Context, tx dbx.DBTX, table string) ([]string, error) {
	main, err := tableColumns(ctx, tx, "main", table)
	if err != nil {
		return nil, err
	}
	snap, err := tableColumns(ctx, tx, "snapshot", table)
	if err != nil {
		return nil, err
	}
	if len(snap) == 0 {
		return nil, fmt.Errorf("%w: backup has no table %s", common.ErrorValidation, table)
	}
	in := make(map[string]struct{}, len(snap))
	for _, c := range snap {
		in[c] = struct{}{}
	}
	var out []string
	for _, c := range main {
		if _, ok := in[c]; ok {
			out = append(out, `"`+c+`"`)
		}
	}
	return out, nil
}

func tableColumns(ctx context.Context, tx dbx.DBTX, schema, table string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM pragma_table_info(?, ?)`, table, schema)
	if err != nil {
		return nil, fmt.Errorf("table info %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// parseName extracts the creation time of a backup file name.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) {
		return time.Time{}, false
	}
	stamp := strings.TrimPrefix(name, filePrefix)
	switch {
	case strings.HasSuffix(stamp, extGzip):
		stamp = strings.TrimSuffix(stamp, extGzip)
	case strings.HasSuffix(stamp, extDB):
		stamp = strings.TrimSuffix(stamp, extDB)
	default:
		return time.Time{}, false
	}
	t, err := time.Parse(fileLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		out.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func gunzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("%w: corrupt backup: %v", common.ErrorValidation, err)
	}
	defer zr.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
