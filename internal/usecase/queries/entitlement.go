package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/usecase"
)

// Read models (DTO for read side)
type SnapshotView struct {
	IsSubscribed bool      `json:"is_subscribed"`
	OwnedUnits   []string  `json:"owned_units"`
	ObservedAt   time.Time `json:"observed_at"`
}

type FeatureView struct {
	FeatureID string `json:"feature_id"`
	Unlocked  bool   `json:"unlocked"`
}

type ProductView struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	DisplayPrice string `json:"display_price"`
}

// EntitlementQueries is the read-only surface feature-gating call sites use.
// IsUnlocked reads the current snapshot synchronously; it never triggers a
// ledger round trip.
type EntitlementQueries interface {
	CurrentSnapshot(ctx context.Context, userID uuid.UUID) (*SnapshotView, error)
	IsUnlocked(ctx context.Context, userID uuid.UUID, featureID string) (bool, error)
	// Watch streams every snapshot published after the call, starting with the
	// current one. The cancel function releases the subscription.
	Watch(ctx context.Context, userID uuid.UUID) (<-chan SnapshotView, func(), error)
}

type ProductQueries interface {
	Products(ctx context.Context, ids []string) ([]ProductView, error)
}

type entitlementQueriesImpl struct {
	registry *usecase.SessionRegistry
}

func NewEntitlementQueries(registry *usecase.SessionRegistry) EntitlementQueries {
	return &entitlementQueriesImpl{registry: registry}
}

func (q *entitlementQueriesImpl) CurrentSnapshot(ctx context.Context, userID uuid.UUID) (*SnapshotView, error) {
	store := q.registry.StoreFor(ctx, userID)
	view := toSnapshotView(store.Current())
	return &view, nil
}

func (q *entitlementQueriesImpl) IsUnlocked(ctx context.Context, userID uuid.UUID, featureID string) (bool, error) {
	store := q.registry.StoreFor(ctx, userID)
	return store.Current().Unlocks(entitlement.FeatureID(featureID)), nil
}

func (q *entitlementQueriesImpl) Watch(ctx context.Context, userID uuid.UUID) (<-chan SnapshotView, func(), error) {
	store := q.registry.StoreFor(ctx, userID)
	snapshots, cancel := store.Subscribe()

	views := make(chan SnapshotView, 1)
	views <- toSnapshotView(store.Current())
	go func() {
		defer close(views)
		for snapshot := range snapshots {
			view := toSnapshotView(snapshot)
			select {
			case views <- view:
			case <-ctx.Done():
				return
			}
		}
	}()
	return views, cancel, nil
}

func toSnapshotView(s entitlement.Snapshot) SnapshotView {
	units := s.OwnedUnits()
	owned := make([]string, 0, len(units))
	for _, u := range units {
		owned = append(owned, u.String())
	}
	return SnapshotView{
		IsSubscribed: s.IsSubscribed(),
		OwnedUnits:   owned,
		ObservedAt:   s.ObservedAt(),
	}
}

type productQueriesImpl struct {
	cache *usecase.ProductCatalogCache
}

func NewProductQueries(cache *usecase.ProductCatalogCache) ProductQueries {
	return &productQueriesImpl{cache: cache}
}

func (q *productQueriesImpl) Products(ctx context.Context, ids []string) ([]ProductView, error) {
	productIDs := make([]ledger.ProductID, 0, len(ids))
	for _, id := range ids {
		productIDs = append(productIDs, ledger.ProductID(id))
	}
	metas, err := q.cache.Products(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(metas))
	for _, meta := range metas {
		views = append(views, ProductView{
			ID:           meta.ID.String(),
			DisplayName:  meta.DisplayName,
			DisplayPrice: meta.DisplayPrice,
		})
	}
	return views, nil
}
