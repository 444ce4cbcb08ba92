package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"vjoin/internal/config"
	"vjoin/internal/services"
)

// ErrLocked reports that another invocation holds the session lock.
var ErrLocked = errors.New("another vjoin command is using the session")

// Store manages session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Snapshot is the persisted state of a list.
type Snapshot struct {
	Policy       string
	Placeholders int
	Slots        []Slot
	UpdatedAt    time.Time
}

// Slot mirrors medialist.Slot; Path is empty for placeholders.
type Slot struct {
	Path            string
	Title           string
	DurationSeconds float64
	Codec           string
	Thumbnail       string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open acquires the session lock and opens (creating if needed) the session
// database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "session", "lock", cfg.LockPath(), ErrLocked)
	}

	dbPath := cfg.SessionDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the session lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Load returns the persisted snapshot. found is false when nothing has been
// saved yet.
func (s *Store) Load(ctx context.Context) (snapshot Snapshot, found bool, err error) {
	ctx = ensureContext(ctx)
	var updated string
	err = s.db.QueryRowContext(ctx,
		"SELECT policy, placeholders, updated_at FROM session WHERE id = 1",
	).Scan(&snapshot.Policy, &snapshot.Placeholders, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read session: %w", err)
	}
	snapshot.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, title, duration_seconds, codec, thumbnail FROM slots ORDER BY position",
	)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read slots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			slot Slot
			path sql.NullString
		)
		if err := rows.Scan(&path, &slot.Title, &slot.DurationSeconds, &slot.Codec, &slot.Thumbnail); err != nil {
			return Snapshot{}, false, fmt.Errorf("scan slot: %w", err)
		}
		slot.Path = path.String
		snapshot.Slots = append(snapshot.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf("iterate slots: %w", err)
	}
	return snapshot, true, nil
}

// Save replaces the persisted snapshot.
func (s *Store) Save(ctx context.Context, snapshot Snapshot) error {
	ctx = ensureContext(ctx)
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now().UTC()
	}
	return retryOnBusy(ctx, func() error {
		return s.save(ctx, snapshot)
	})
}

func (s *Store) save(ctx context.Context, snapshot Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session (id, policy, placeholders, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET policy = excluded.policy, placeholders = excluded.placeholders, updated_at = excluded.updated_at`,
		snapshot.Policy, snapshot.Placeholders, snapshot.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM slots"); err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}
	for i, slot := range snapshot.Slots {
		var path sql.NullString
		if slot.Path != "" {
			path = sql.NullString{String: slot.Path, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO slots (position, path, title, duration_seconds, codec, thumbnail) VALUES (?, ?, ?, ?, ?, ?)",
			i, path, slot.Title, slot.DurationSeconds, slot.Codec, slot.Thumbnail,
		); err != nil {
			return fmt.Errorf("write slot %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Reset deletes the persisted snapshot.
func (s *Store) Reset(ctx context.Context) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM slots; DELETE FROM session;")
		return err
	})
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
