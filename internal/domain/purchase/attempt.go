package purchase

import (
	"time"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/ledger"
)

// Attempt is the transient identity of one purchase round trip. It is never
// persisted; it exists so logs from a single attempt correlate.
type Attempt struct {
	ID        uuid.UUID
	ProductID ledger.ProductID
	StartedAt time.Time
}

func NewAttempt(productID ledger.ProductID, startedAt time.Time) Attempt {
	return Attempt{
		ID:        uuid.New(),
		ProductID: productID,
		StartedAt: startedAt,
	}
}
