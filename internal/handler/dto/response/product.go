package response

import (
	"entitlement-service/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type ProductResponse struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	DisplayPrice string `json:"displayPrice"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

func FromProductViews(views []queries.ProductView) (*ProductListResponse, error) {
	products := make([]ProductResponse, 0, len(views))
	if err := copier.Copy(&products, &views); err != nil {
		return nil, err
	}
	return &ProductListResponse{Products: products}, nil
}
