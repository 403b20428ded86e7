package request

import (
	"strings"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/ledger"
)

type PurchaseSubscriptionRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (r PurchaseSubscriptionRequest) GetProductID() ledger.ProductID {
	return ledger.ProductID(strings.TrimSpace(r.ProductID))
}

type PurchaseUnitRequest struct {
	UnitID    string `json:"unit_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
}

func (r PurchaseUnitRequest) GetUnitID() entitlement.UnitID {
	return entitlement.UnitID(strings.TrimSpace(r.UnitID))
}

func (r PurchaseUnitRequest) GetProductID() ledger.ProductID {
	return ledger.ProductID(strings.TrimSpace(r.ProductID))
}
