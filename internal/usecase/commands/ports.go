package commands

import (
	"context"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/entitlement"
)

// StoreHandle is the slice of the entitlement store a purchase coordinator
// needs: await one reconciliation and read the resulting snapshot.
type StoreHandle interface {
	Refresh(ctx context.Context) error
	Current() entitlement.Snapshot
}

// StoreProvider resolves the running store for a user session.
type StoreProvider interface {
	StoreFor(ctx context.Context, userID uuid.UUID) StoreHandle
}
