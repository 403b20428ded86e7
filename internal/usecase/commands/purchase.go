package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/usecase/shared"
)

// PurchaseCommands orchestrates one purchase attempt per call. Every attempt
// resolves to a closed Outcome; no transport error escapes to the caller.
type PurchaseCommands interface {
	BuySubscription(ctx context.Context, userID uuid.UUID, productID ledger.ProductID) purchase.Outcome
	BuyUnit(ctx context.Context, userID uuid.UUID, unitID entitlement.UnitID, productID ledger.ProductID) purchase.Outcome
}

type purchaseCommandsImpl struct {
	gateway shared.LedgerGateway
	stores  StoreProvider
	catalog *entitlement.Catalog
	policy  config.PurchasingConfig
	clock   clock.Clock
	logger  *slog.Logger
}

func NewPurchaseCommands(
	gateway shared.LedgerGateway,
	stores StoreProvider,
	catalog *entitlement.Catalog,
	policy config.PurchasingConfig,
	clk clock.Clock,
	logger *slog.Logger,
) PurchaseCommands {
	return &purchaseCommandsImpl{
		gateway: gateway,
		stores:  stores,
		catalog: catalog,
		policy:  policy,
		clock:   clk,
		logger:  logger,
	}
}

func (p *purchaseCommandsImpl) BuySubscription(ctx context.Context, userID uuid.UUID, productID ledger.ProductID) purchase.Outcome {
	if !p.policy.Enabled || !p.policy.SubscriptionEnabled {
		return purchase.Disabled()
	}
	if !p.catalog.IsSubscriptionProduct(productID) {
		p.logger.Warn("subscription purchase requested for non-subscription product",
			"user_id", userID, "product_id", productID)
		return purchase.UnknownFailure()
	}

	outcome := p.executePurchase(ctx, userID, productID)
	if outcome.Pending() {
		p.scheduleReverify(userID, productID, func(s entitlement.Snapshot) bool {
			return s.IsSubscribed()
		})
	}
	return outcome
}

func (p *purchaseCommandsImpl) BuyUnit(ctx context.Context, userID uuid.UUID, unitID entitlement.UnitID, productID ledger.ProductID) purchase.Outcome {
	if !p.policy.Enabled || !p.policy.UnitsEnabled {
		return purchase.Disabled()
	}
	if expected, ok := p.catalog.ProductForUnit(unitID); !ok || expected != productID {
		p.logger.Warn("unit purchase requested with mismatched product",
			"user_id", userID, "unit_id", unitID, "product_id", productID)
		return purchase.UnknownFailure()
	}

	outcome := p.executePurchase(ctx, userID, productID)
	if outcome.Pending() {
		p.scheduleReverify(userID, productID, func(s entitlement.Snapshot) bool {
			return s.Owns(unitID)
		})
	}
	return outcome
}

func (p *purchaseCommandsImpl) executePurchase(ctx context.Context, userID uuid.UUID, productID ledger.ProductID) purchase.Outcome {
	attempt := purchase.NewAttempt(productID, p.clock.Now())
	p.logger.Info("purchase attempt started",
		"attempt_id", attempt.ID, "user_id", userID, "product_id", productID)

	raw, err := p.gateway.Purchase(ctx, userID, productID)
	var outcome purchase.Outcome
	if err != nil {
		outcome = purchase.LedgerFailure(err)
	} else {
		outcome = purchase.MapRaw(raw)
	}

	if outcome.Succeeded() {
		// Callers must observe the new entitlement as soon as this returns,
		// not whenever the passive update stream catches up.
		store := p.stores.StoreFor(ctx, userID)
		if err := store.Refresh(ctx); err != nil {
			p.logger.Warn("post-purchase reconciliation failed, stream will catch up",
				"attempt_id", attempt.ID, "user_id", userID, "error", err.Error())
		}
	}

	p.logger.Info("purchase attempt finished",
		"attempt_id", attempt.ID, "user_id", userID, "product_id", productID,
		"outcome", outcome.Kind().String(), "reason", outcome.Reason().String())
	return outcome
}

// scheduleReverify retries reconciliation a bounded number of times after a
// pending outcome, so an unverified grant that the platform later verifies
// does not hang in pending until the next unrelated trigger.
func (p *purchaseCommandsImpl) scheduleReverify(userID uuid.UUID, productID ledger.ProductID, granted func(entitlement.Snapshot) bool) {
	attempts := p.policy.ReverifyAttempts
	if attempts <= 0 {
		return
	}
	go func() {
		for i := 0; i < attempts; i++ {
			time.Sleep(p.policy.ReverifyInterval)
			ctx, cancel := context.WithTimeout(context.Background(), defaultReverifyTimeout)
			store := p.stores.StoreFor(ctx, userID)
			err := store.Refresh(ctx)
			cancel()
			if err != nil {
				continue
			}
			if granted(store.Current()) {
				p.logger.Info("pending purchase verified",
					"user_id", userID, "product_id", productID, "attempt", i+1)
				return
			}
		}
		p.logger.Warn("purchase still pending after re-verification attempts",
			"user_id", userID, "product_id", productID, "attempts", attempts)
	}()
}

const defaultReverifyTimeout = 15 * time.Second
