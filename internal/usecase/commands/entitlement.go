package commands

import (
	"context"

	"github.com/google/uuid"
)

// EntitlementCommands exposes the on-demand reconciliation trigger.
type EntitlementCommands interface {
	// Refresh resolves once a reconciliation that started at or after the call
	// completes.
	Refresh(ctx context.Context, userID uuid.UUID) error
}

type entitlementCommandsImpl struct {
	stores StoreProvider
}

func NewEntitlementCommands(stores StoreProvider) EntitlementCommands {
	return &entitlementCommandsImpl{stores: stores}
}

func (e *entitlementCommandsImpl) Refresh(ctx context.Context, userID uuid.UUID) error {
	return e.stores.StoreFor(ctx, userID).Refresh(ctx)
}
