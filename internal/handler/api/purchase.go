package api

import (
	"net/http"

	reqdto "entitlement-service/internal/handler/dto/request"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/middleware"

	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseCommands commands.PurchaseCommands
}

func NewPurchaseHandler(purchaseCommands commands.PurchaseCommands) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseCommands: purchaseCommands,
	}
}

// @Summary Purchase subscription
// @Description Start a subscription purchase and wait for its outcome
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PurchaseSubscriptionRequest true "Purchase request"
// @Success 200 {object} resdto.PurchaseResponse
// @Success 202 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} resdto.PurchaseResponse
// @Failure 502 {object} resdto.PurchaseResponse
// @Router /purchases/subscription [post]
func (h *PurchaseHandler) PurchaseSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.PurchaseSubscriptionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	outcome := h.purchaseCommands.BuySubscription(c.Request.Context(), userID, req.GetProductID())
	c.JSON(statusForOutcome(outcome), resdto.FromOutcome(outcome))
}

// @Summary Purchase unit
// @Description Start a one-time unit purchase and wait for its outcome
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PurchaseUnitRequest true "Purchase request"
// @Success 200 {object} resdto.PurchaseResponse
// @Success 202 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} resdto.PurchaseResponse
// @Failure 502 {object} resdto.PurchaseResponse
// @Router /purchases/units [post]
func (h *PurchaseHandler) PurchaseUnit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.PurchaseUnitRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	outcome := h.purchaseCommands.BuyUnit(c.Request.Context(), userID, req.GetUnitID(), req.GetProductID())
	c.JSON(statusForOutcome(outcome), resdto.FromOutcome(outcome))
}

func statusForOutcome(outcome purchase.Outcome) int {
	switch outcome.Kind() {
	case purchase.OutcomeSuccess, purchase.OutcomeCancelled:
		return http.StatusOK
	case purchase.OutcomePending:
		return http.StatusAccepted
	case purchase.OutcomeFailed:
		switch outcome.Reason() {
		case purchase.ReasonPurchasingDisabled:
			return http.StatusForbidden
		case purchase.ReasonLedgerError:
			return http.StatusBadGateway
		default:
			return http.StatusBadRequest
		}
	default:
		return http.StatusInternalServerError
	}
}
