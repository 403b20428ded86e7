package entitlement

import (
	"entitlement-service/internal/domain/ledger"
)

// Catalog holds the static product tables: which product identifiers grant the
// subscription and the bidirectional unit ⇄ product mapping. The tables are
// data so adding a purchasable unit never touches reconciliation logic.
type Catalog struct {
	subscriptionProducts map[ledger.ProductID]struct{}
	productToUnit        map[ledger.ProductID]UnitID
	unitToProduct        map[UnitID]ledger.ProductID
}

func NewCatalog(subscriptionProducts []ledger.ProductID, unitProducts map[UnitID]ledger.ProductID) *Catalog {
	c := &Catalog{
		subscriptionProducts: make(map[ledger.ProductID]struct{}, len(subscriptionProducts)),
		productToUnit:        make(map[ledger.ProductID]UnitID, len(unitProducts)),
		unitToProduct:        make(map[UnitID]ledger.ProductID, len(unitProducts)),
	}
	for _, p := range subscriptionProducts {
		c.subscriptionProducts[p] = struct{}{}
	}
	for unit, product := range unitProducts {
		c.unitToProduct[unit] = product
		c.productToUnit[product] = unit
	}
	return c
}

const (
	ProMonthlyProductID ledger.ProductID = "pro.month"
	ProYearlyProductID  ledger.ProductID = "pro.year"
)

// DefaultCatalog returns the shipping product tables.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]ledger.ProductID{ProMonthlyProductID, ProYearlyProductID},
		map[UnitID]ledger.ProductID{
			"unit.move":      "unit.move",
			"unit.family":    "unit.family",
			"unit.workstyle": "unit.workstyle",
		},
	)
}

// Classify maps a ledger product identifier to its domain grant. Unknown
// identifiers classify as KindUnrecognized, never as an error.
func (c *Catalog) Classify(productID ledger.ProductID) Grant {
	if _, ok := c.subscriptionProducts[productID]; ok {
		return Grant{Kind: KindSubscription}
	}
	if unit, ok := c.productToUnit[productID]; ok {
		return Grant{Kind: KindUnit, Unit: unit}
	}
	return Grant{Kind: KindUnrecognized}
}

// GrantFor derives the domain entitlement carried by one ledger record.
// Revoked records carry no grant regardless of product identifier.
func (c *Catalog) GrantFor(record ledger.Record) Grant {
	if record.Revoked() {
		return Grant{Kind: KindUnrecognized}
	}
	return c.Classify(record.ProductID)
}

func (c *Catalog) ProductForUnit(unit UnitID) (ledger.ProductID, bool) {
	product, ok := c.unitToProduct[unit]
	return product, ok
}

func (c *Catalog) UnitForProduct(productID ledger.ProductID) (UnitID, bool) {
	unit, ok := c.productToUnit[productID]
	return unit, ok
}

func (c *Catalog) IsSubscriptionProduct(productID ledger.ProductID) bool {
	_, ok := c.subscriptionProducts[productID]
	return ok
}
