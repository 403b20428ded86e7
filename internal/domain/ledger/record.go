package ledger

import (
	"time"

	"github.com/google/uuid"
)

// ProductID identifies a purchasable product on the commerce platform.
type ProductID string

func (p ProductID) String() string {
	return string(p)
}

type TrustLevel string

const (
	TrustVerified   TrustLevel = "verified"
	TrustUnverified TrustLevel = "unverified"
)

// Record is one transaction as reported by the commerce platform. Records are
// read-only to this service: they are replayed in full on every entitlement
// fetch and pushed incrementally over the update stream, possibly more than
// once per transaction.
type Record struct {
	TransactionID uuid.UUID
	ProductID     ProductID
	Trust         TrustLevel
	TrustReason   string
	RevokedAt     *time.Time
}

func (r Record) Verified() bool {
	return r.Trust == TrustVerified
}

func (r Record) Revoked() bool {
	return r.RevokedAt != nil
}

// ProductMetadata is display information for one product. Treated as immutable
// for the lifetime of a process.
type ProductMetadata struct {
	ID           ProductID
	DisplayName  string
	DisplayPrice string
}
