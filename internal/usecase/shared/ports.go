package shared

import (
	"context"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/pkg/errs"
)

var (
	// ErrLedgerUnavailable marks transient transport/platform failures.
	// Callers keep their last-known-good state and retry on the next trigger.
	ErrLedgerUnavailable = errs.New("ledger unavailable")

	// ErrSnapshotNotFound is returned when no snapshot has been persisted yet.
	ErrSnapshotNotFound = errs.New("snapshot not found")
)

// LedgerGateway is the narrow port to the commerce platform. Implementations
// own no durable state; reads are idempotent and safe to call concurrently.
type LedgerGateway interface {
	// FetchOwnedRecords returns every transaction the user currently holds,
	// including revoked and unverified ones.
	FetchOwnedRecords(ctx context.Context, userID uuid.UUID) ([]ledger.Record, error)
	// FetchProducts returns metadata for the given identifiers. An empty input
	// returns an empty result without a network call. Identifiers the ledger
	// does not know are omitted from the result.
	FetchProducts(ctx context.Context, ids []ledger.ProductID) ([]ledger.ProductMetadata, error)
	Purchase(ctx context.Context, userID uuid.UUID, productID ledger.ProductID) (purchase.RawResult, error)
	// SubscribeToUpdates opens the live transaction stream. Delivery is
	// at-least-once: duplicates are expected and every record must be
	// acknowledged after processing, trusted or not.
	SubscribeToUpdates(ctx context.Context, userID uuid.UUID) (UpdateStream, error)
}

// UpdateStream is one live subscription to ledger transaction updates.
type UpdateStream interface {
	// Next blocks until a record arrives or ctx is done. Reconnection on
	// transport errors is the implementation's concern.
	Next(ctx context.Context) (ledger.Record, error)
	// Ack finalizes a delivered record with the ledger.
	Ack(ctx context.Context, record ledger.Record) error
	Close() error
}

// SnapshotRepository persists the last published snapshot per user so a fresh
// process can gate stale-but-consistent until its first reconciliation.
type SnapshotRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (entitlement.Snapshot, error)
	Save(ctx context.Context, userID uuid.UUID, snapshot entitlement.Snapshot) error
}
