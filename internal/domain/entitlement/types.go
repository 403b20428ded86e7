package entitlement

// UnitID identifies an individually purchasable content unit.
type UnitID string

func (u UnitID) String() string {
	return string(u)
}

// FeatureID identifies a gated feature. Unit-level features share the unit's
// identifier; the subscription unlocks every feature regardless of identifier.
type FeatureID string

type Kind int

const (
	// KindUnrecognized covers product identifiers this build does not know yet.
	// Callers skip them silently so newer store products never break older
	// clients.
	KindUnrecognized Kind = iota
	KindSubscription
	KindUnit
)

// Grant is the domain meaning of one ledger product identifier.
type Grant struct {
	Kind Kind
	Unit UnitID // set only for KindUnit
}
