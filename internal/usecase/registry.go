package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/shared"
)

// SessionRegistry hands out one running EntitlementStore per user session.
// Stores are created and started lazily on first access and stopped together
// at shutdown.
type SessionRegistry struct {
	gateway shared.LedgerGateway
	repo    shared.SnapshotRepository
	catalog *entitlement.Catalog
	clock   clock.Clock
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	stores map[uuid.UUID]*EntitlementStore
}

func NewSessionRegistry(
	gateway shared.LedgerGateway,
	repo shared.SnapshotRepository,
	catalog *entitlement.Catalog,
	clk clock.Clock,
	logger *slog.Logger,
	reconcileTimeout time.Duration,
) *SessionRegistry {
	return &SessionRegistry{
		gateway: gateway,
		repo:    repo,
		catalog: catalog,
		clock:   clk,
		logger:  logger,
		timeout: reconcileTimeout,
		stores:  make(map[uuid.UUID]*EntitlementStore),
	}
}

// StoreFor returns the user's running store, starting one if needed.
func (r *SessionRegistry) StoreFor(ctx context.Context, userID uuid.UUID) *EntitlementStore {
	r.mu.Lock()
	store, ok := r.stores[userID]
	if !ok {
		store = NewEntitlementStore(userID, r.gateway, r.repo, r.catalog, r.clock, r.logger, r.timeout)
		r.stores[userID] = store
	}
	r.mu.Unlock()

	store.Start(ctx)
	return store
}

// NewStoreProvider adapts the registry to the narrow handle purchase
// coordinators depend on.
func NewStoreProvider(registry *SessionRegistry) commands.StoreProvider {
	return storeProviderAdapter{registry: registry}
}

type storeProviderAdapter struct {
	registry *SessionRegistry
}

func (a storeProviderAdapter) StoreFor(ctx context.Context, userID uuid.UUID) commands.StoreHandle {
	return a.registry.StoreFor(ctx, userID)
}

// StopAll stops every running store. Called once at session/service end.
func (r *SessionRegistry) StopAll() {
	r.mu.Lock()
	stores := make([]*EntitlementStore, 0, len(r.stores))
	for _, s := range r.stores {
		stores = append(stores, s)
	}
	r.stores = make(map[uuid.UUID]*EntitlementStore)
	r.mu.Unlock()

	for _, s := range stores {
		s.Stop()
	}
}
