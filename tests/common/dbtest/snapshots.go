//go:build unit || e2e

package dbtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRow mirrors the entitlement_snapshots table for assertions.
type SnapshotRow struct {
	UserID       uuid.UUID
	IsSubscribed bool
	OwnedUnits   []string
	ObservedAt   time.Time
}

// ResetDB restores a clean database state between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, "TRUNCATE TABLE entitlement_snapshots")
	return err
}

// FetchSnapshot reads the persisted snapshot for a user. Returns (nil, nil)
// when no row exists.
func FetchSnapshot(pool *pgxpool.Pool, userID uuid.UUID) (*SnapshotRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := pool.QueryRow(ctx,
		"SELECT user_id, is_subscribed, owned_units, observed_at FROM entitlement_snapshots WHERE user_id = $1",
		userID)

	var snap SnapshotRow
	if err := row.Scan(&snap.UserID, &snap.IsSubscribed, &snap.OwnedUnits, &snap.ObservedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// SeedSnapshot inserts a snapshot row directly, bypassing the store.
func SeedSnapshot(pool *pgxpool.Pool, snap SnapshotRow) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx,
		`INSERT INTO entitlement_snapshots (user_id, is_subscribed, owned_units, observed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET is_subscribed = EXCLUDED.is_subscribed,
		     owned_units   = EXCLUDED.owned_units,
		     observed_at   = EXCLUDED.observed_at`,
		snap.UserID, snap.IsSubscribed, snap.OwnedUnits, snap.ObservedAt)
	return err
}
