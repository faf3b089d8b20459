package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS spots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		position INTEGER NOT NULL
	);
`

// SQLiteRegistry keeps spots in a SQLite database. The table is created and
// seeded on first open; existing rows are never overwritten by the seed.
type SQLiteRegistry struct {
	db     *sql.DB
	seed   []model.Spot
	logger logger.Logger
}

// OpenSQLite opens or provisions the database at path. Use ":memory:" for a
// throwaway registry.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteRegistry, error) {
	r := &SQLiteRegistry{
		seed:   DefaultSpots(),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening spots database: %w", err)
	}
	// one connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)
	r.db = db

	if err := r.provision(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRegistry) provision(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating spots table: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seeding spots: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	inserted := 0
	for i, sp := range r.seed {
		if err := validateSpot(sp); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO spots (id, name, region, latitude, longitude, position)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			sp.ID, sp.Name, string(sp.Region), sp.Coordinates.Lat, sp.Coordinates.Lng, i)
		if err != nil {
			return fmt.Errorf("seeding spot %s: %w", sp.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seeding spots: %w", err)
	}
	if inserted > 0 {
		r.logger.Info(ctx, "spots seeded", logger.Int("inserted", inserted))
	}
	return nil
}

// List implements Registry.
func (r *SQLiteRegistry) List(ctx context.Context) ([]model.Spot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, region, latitude, longitude
		FROM spots
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("listing spots: %w", err)
	}
	defer rows.Close()

	var out []model.Spot
	for rows.Next() {
		sp, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing spots: %w", err)
	}
	return out, nil
}

// Get implements Registry.
func (r *SQLiteRegistry) Get(ctx context.Context, id string) (model.Spot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, region, latitude, longitude
		FROM spots
		WHERE id = ?`, id)
	sp, err := scanSpot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Spot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sp, err
}

// Count implements Registry. It returns 0 when the database cannot be read.
func (r *SQLiteRegistry) Count(ctx context.Context) int {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spots`).Scan(&n); err != nil {
		r.logger.Error(ctx, "counting spots", logger.Error(err))
		return 0
	}
	return n
}

// Upsert inserts or replaces a spot, appending new ids after existing ones.
func (r *SQLiteRegistry) Upsert(ctx context.Context, sp model.Spot) error {
	if err := validateSpot(sp); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO spots (id, name, region, latitude, longitude, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM spots))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			region = excluded.region,
			latitude = excluded.latitude,
			longitude = excluded.longitude`,
		sp.ID, sp.Name, string(sp.Region), sp.Coordinates.Lat, sp.Coordinates.Lng)
	if err != nil {
		return fmt.Errorf("upserting spot %s: %w", sp.ID, err)
	}
	return nil
}

// Close releases the database.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpot(s scanner) (model.Spot, error) {
	var (
		sp     model.Spot
		region string
	)
	if err := s.Scan(&sp.ID, &sp.Name, &region, &sp.Coordinates.Lat, &sp.Coordinates.Lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Spot{}, err
		}
		return model.Spot{}, fmt.Errorf("reading spot: %w", err)
	}
	r, err := model.ParseRegion(region)
	if err != nil {
		return model.Spot{}, fmt.Errorf("spot %s: %w", sp.ID, err)
	}
	sp.Region = r
	return sp, nil
}
