package usecase

import (
	"context"
	"sync"

	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/usecase/shared"
)

// ProductCatalogCache memoizes product metadata lookups for the lifetime of
// the process. Product metadata is treated as immutable per session, so
// entries are never invalidated.
type ProductCatalogCache struct {
	gateway shared.LedgerGateway

	mu    sync.Mutex
	cache map[ledger.ProductID]ledger.ProductMetadata
}

func NewProductCatalogCache(gateway shared.LedgerGateway) *ProductCatalogCache {
	return &ProductCatalogCache{
		gateway: gateway,
		cache:   make(map[ledger.ProductID]ledger.ProductMetadata),
	}
}

// Products returns metadata in input order, fetching only identifiers not yet
// cached. Identifiers the ledger does not return are omitted from the result.
func (c *ProductCatalogCache) Products(ctx context.Context, ids []ledger.ProductID) ([]ledger.ProductMetadata, error) {
	if len(ids) == 0 {
		return []ledger.ProductMetadata{}, nil
	}

	c.mu.Lock()
	var missing []ledger.ProductID
	seen := make(map[ledger.ProductID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		fetched, err := c.gateway.FetchProducts(ctx, missing)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		for _, meta := range fetched {
			c.cache[meta.ID] = meta
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]ledger.ProductMetadata, 0, len(ids))
	for _, id := range ids {
		if meta, ok := c.cache[id]; ok {
			result = append(result, meta)
		}
	}
	return result, nil
}

// Product is the single-item convenience wrapper. A nil result without error
// means the ledger does not know the identifier.
func (c *ProductCatalogCache) Product(ctx context.Context, id ledger.ProductID) (*ledger.ProductMetadata, error) {
	metas, err := c.Products(ctx, []ledger.ProductID{id})
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}
	return &metas[0], nil
}
