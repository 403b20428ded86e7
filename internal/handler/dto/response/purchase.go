package response

import (
	"entitlement-service/internal/domain/purchase"
)

type PurchaseResponse struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func FromOutcome(outcome purchase.Outcome) *PurchaseResponse {
	resp := &PurchaseResponse{
		Outcome: outcome.Kind().String(),
	}
	if outcome.Failed() {
		resp.Reason = outcome.Reason().String()
		if detail := outcome.Detail(); detail != nil {
			resp.Detail = detail.Error()
		}
	}
	return resp
}
