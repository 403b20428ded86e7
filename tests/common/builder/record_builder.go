//go:build unit || e2e

package builder

import (
	"time"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/ledger"

	"github.com/google/uuid"
)

type RecordBuilder struct {
	TransactionID uuid.UUID
	ProductID     string
	Trust         ledger.TrustLevel
	TrustReason   string
	RevokedAt     *time.Time
}

func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{
		TransactionID: uuid.New(),
		ProductID:     entitlement.ProMonthlyProductID.String(),
		Trust:         ledger.TrustVerified,
	}
}

func (b *RecordBuilder) With(mutate func(*RecordBuilder)) *RecordBuilder {
	mutate(b)
	return b
}

func (b *RecordBuilder) WithProduct(productID string) *RecordBuilder {
	b.ProductID = productID
	return b
}

func (b *RecordBuilder) WithUnverified(reason string) *RecordBuilder {
	b.Trust = ledger.TrustUnverified
	b.TrustReason = reason
	return b
}

func (b *RecordBuilder) WithRevokedAt(t time.Time) *RecordBuilder {
	b.RevokedAt = &t
	return b
}

func (b *RecordBuilder) Build() ledger.Record {
	return ledger.Record{
		TransactionID: b.TransactionID,
		ProductID:     ledger.ProductID(b.ProductID),
		Trust:         b.Trust,
		TrustReason:   b.TrustReason,
		RevokedAt:     b.RevokedAt,
	}
}
