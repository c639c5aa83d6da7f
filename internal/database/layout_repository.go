package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pablodealeht/windowdeck/internal/domain"
)

// layoutColumns must match the Scan order in scanLayout.
const layoutColumns = `handle, title, x, y, width, height, last_updated`

// LayoutRepo implements domain.LayoutRepository backed by PostgreSQL.
type LayoutRepo struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

func NewLayoutRepo(pool *pgxpool.Pool, clock clockwork.Clock) *LayoutRepo {
	return &LayoutRepo{pool: pool, clock: clock}
}

func scanLayout(row pgx.Row) (*domain.LayoutRecord, error) {
	var rec domain.LayoutRecord
	err := row.Scan(&rec.Handle, &rec.Title, &rec.X, &rec.Y, &rec.Width, &rec.Height, &rec.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *LayoutRepo) GetByHandle(ctx context.Context, handle domain.Handle) (*domain.LayoutRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+layoutColumns+` FROM window_layouts WHERE handle = $1`, int64(handle))

	rec, err := scanLayout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get layout record: %w", err)
	}
	return rec, nil
}

func (r *LayoutRepo) GetByHandles(ctx context.Context, handles []domain.Handle) (map[domain.Handle]domain.LayoutRecord, error) {
	result := make(map[domain.Handle]domain.LayoutRecord, len(handles))
	if len(handles) == 0 {
		return result, nil
	}

	ids := make([]int64, len(handles))
	for i, h := range handles {
		ids[i] = int64(h)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+layoutColumns+` FROM window_layouts WHERE handle = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-fetch layout records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.LayoutRecord
		if err := rows.Scan(&rec.Handle, &rec.Title, &rec.X, &rec.Y, &rec.Width, &rec.Height, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan layout record: %w", err)
		}
		result[rec.Handle] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read layout records: %w", err)
	}

	return result, nil
}

// UpsertPosition creates or updates the record for handle. The conflict
// branch deliberately leaves title/width/height untouched: only the
// position and timestamp change for an already-known window.
func (r *LayoutRepo) UpsertPosition(ctx context.Context, handle domain.Handle, x, y int32, title string, width, height int32) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO window_layouts (handle, title, x, y, width, height, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (handle) DO UPDATE
		 SET x = EXCLUDED.x, y = EXCLUDED.y, last_updated = EXCLUDED.last_updated`,
		int64(handle), title, x, y, width, height, r.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert layout position: %w", err)
	}
	return nil
}

// UpsertSize is the width/height dual of UpsertPosition.
func (r *LayoutRepo) UpsertSize(ctx context.Context, handle domain.Handle, width, height int32, title string, x, y int32) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO window_layouts (handle, title, x, y, width, height, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (handle) DO UPDATE
		 SET width = EXCLUDED.width, height = EXCLUDED.height, last_updated = EXCLUDED.last_updated`,
		int64(handle), title, x, y, width, height, r.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert layout size: %w", err)
	}
	return nil
}
