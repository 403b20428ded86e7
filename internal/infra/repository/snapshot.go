package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"
)

// SnapshotRepository persists the last published snapshot per user. The upsert
// keeps the row monotonic by observed_at, mirroring the in-memory guard, so a
// racing stale writer can never roll the persisted state backwards.
type SnapshotRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewSnapshotRepository(db *pgxpool.Pool, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

const loadSnapshotSQL = `
SELECT is_subscribed, owned_units, observed_at
FROM entitlement_snapshots
WHERE user_id = $1
`

const saveSnapshotSQL = `
INSERT INTO entitlement_snapshots (user_id, is_subscribed, owned_units, observed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET is_subscribed = EXCLUDED.is_subscribed,
    owned_units   = EXCLUDED.owned_units,
    observed_at   = EXCLUDED.observed_at
WHERE entitlement_snapshots.observed_at < EXCLUDED.observed_at
`

func (r *SnapshotRepository) Load(ctx context.Context, userID uuid.UUID) (entitlement.Snapshot, error) {
	var (
		isSubscribed bool
		ownedUnits   []string
		observedAt   time.Time
	)
	err := r.db.QueryRow(ctx, loadSnapshotSQL, userID).Scan(&isSubscribed, &ownedUnits, &observedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entitlement.Snapshot{}, errs.Mark(err, shared.ErrSnapshotNotFound)
		}
		return entitlement.Snapshot{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load entitlement snapshot", err)
	}

	units := make([]entitlement.UnitID, 0, len(ownedUnits))
	for _, u := range ownedUnits {
		units = append(units, entitlement.UnitID(u))
	}
	return entitlement.NewSnapshot(isSubscribed, units, observedAt), nil
}

func (r *SnapshotRepository) Save(ctx context.Context, userID uuid.UUID, snapshot entitlement.Snapshot) error {
	units := snapshot.OwnedUnits()
	ownedUnits := make([]string, 0, len(units))
	for _, u := range units {
		ownedUnits = append(ownedUnits, u.String())
	}

	_, err := r.db.Exec(ctx, saveSnapshotSQL, userID, snapshot.IsSubscribed(), ownedUnits, snapshot.ObservedAt())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save entitlement snapshot", err)
	}
	return nil
}
