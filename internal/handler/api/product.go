package api

import (
	"net/http"
	"strings"

	resdto "entitlement-service/internal/handler/dto/response"

	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productQueries queries.ProductQueries
}

func NewProductHandler(productQueries queries.ProductQueries) *ProductHandler {
	return &ProductHandler{
		productQueries: productQueries,
	}
}

// @Summary List products
// @Description Get display metadata for the requested product IDs
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param ids query string false "Comma-separated product IDs"
// @Success 200 {object} resdto.ProductListResponse
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ids := parseIDs(c.Query("ids"))

	views, err := h.productQueries.Products(c.Request.Context(), ids)
	if err != nil {
		if errs.Is(err, shared.ErrLedgerUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Purchase ledger is unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response, err := resdto.FromProductViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

func parseIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
