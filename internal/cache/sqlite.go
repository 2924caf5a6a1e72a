package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"WeekdaySentinel/internal/model"
)

// SQLiteStore caches daily prices in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite price cache opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_prices (
			source     TEXT    NOT NULL,
			instrument TEXT    NOT NULL,
			timestamp  INTEGER NOT NULL,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			volume     REAL,
			PRIMARY KEY (source, instrument, timestamp)
		)`,

		`CREATE TABLE IF NOT EXISTS fetch_windows (
			source     TEXT    NOT NULL,
			instrument TEXT    NOT NULL,
			days       INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (source, instrument)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Window(ctx context.Context, source string, instrument model.Instrument) (Window, bool, error) {
	var days int
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT days, fetched_at FROM fetch_windows WHERE source = ? AND instrument = ?`,
		source, string(instrument),
	).Scan(&days, &fetchedAt)
	if err == sql.ErrNoRows {
		return Window{}, false, nil
	}
	if err != nil {
		return Window{}, false, fmt.Errorf("query fetch window: %w", err)
	}
	return Window{Days: days, FetchedAt: time.Unix(fetchedAt, 0)}, true, nil
}

func (s *SQLiteStore) Load(ctx context.Context, source string, instrument model.Instrument, days int) ([]model.RawDailyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, open, high, low, close, volume FROM (
			SELECT * FROM daily_prices
			WHERE source = ? AND instrument = ?
			ORDER BY timestamp DESC
			LIMIT ?
		) ORDER BY timestamp ASC`,
		source, string(instrument), days,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily prices: %w", err)
	}
	defer rows.Close()

	var records []model.RawDailyRecord
	for rows.Next() {
		var ts int64
		var rec model.RawDailyRecord
		if err := rows.Scan(&ts, &rec.Open, &rec.High, &rec.Low, &rec.Close, &rec.Volume); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		rec.Timestamp = &ts
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Save skips records without a timestamp since they cannot be keyed.
func (s *SQLiteStore) Save(ctx context.Context, source string, instrument model.Instrument, days int, records []model.RawDailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_prices
		(source, instrument, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (source, instrument, timestamp) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.Timestamp == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, source, string(instrument), *rec.Timestamp,
			rec.Open, rec.High, rec.Low, rec.Close, rec.Volume); err != nil {
			return fmt.Errorf("insert daily price: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO fetch_windows (source, instrument, days, fetched_at)
		VALUES (?,?,?,?)
		ON CONFLICT (source, instrument) DO UPDATE SET days = excluded.days, fetched_at = excluded.fetched_at`,
		source, string(instrument), days, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("stamp fetch window: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite price cache")
	return s.db.Close()
}
