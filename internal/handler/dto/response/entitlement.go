package response

import (
	"time"

	"entitlement-service/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type SnapshotResponse struct {
	IsSubscribed bool      `json:"isSubscribed"`
	OwnedUnits   []string  `json:"ownedUnits"`
	ObservedAt   time.Time `json:"observedAt"`
}

type FeatureResponse struct {
	FeatureID string `json:"featureId"`
	Unlocked  bool   `json:"unlocked"`
}

func FromSnapshotView(view *queries.SnapshotView) (*SnapshotResponse, error) {
	var resp SnapshotResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	if resp.OwnedUnits == nil {
		resp.OwnedUnits = []string{}
	}
	return &resp, nil
}
