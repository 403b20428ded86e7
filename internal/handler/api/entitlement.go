package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/middleware"

	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const streamWriteWait = 10 * time.Second

type EntitlementHandler struct {
	entitlementQueries  queries.EntitlementQueries
	entitlementCommands commands.EntitlementCommands
	upgrader            websocket.Upgrader
}

func NewEntitlementHandler(entitlementQueries queries.EntitlementQueries, entitlementCommands commands.EntitlementCommands) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementQueries:  entitlementQueries,
		entitlementCommands: entitlementCommands,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// @Summary Current entitlements
// @Description Get the current entitlement snapshot for the authenticated user
// @Tags entitlements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SnapshotResponse
// @Failure 401 {object} map[string]string
// @Router /entitlements [get]
func (h *EntitlementHandler) GetSnapshot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.entitlementQueries.CurrentSnapshot(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response, err := resdto.FromSnapshotView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Feature check
// @Description Report whether the authenticated user has access to a feature
// @Tags entitlements
// @Produce json
// @Security BearerAuth
// @Param feature_id path string true "Feature ID"
// @Success 200 {object} resdto.FeatureResponse
// @Failure 401 {object} map[string]string
// @Router /entitlements/features/{feature_id} [get]
func (h *EntitlementHandler) GetFeature(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	featureID := c.Param("feature_id")
	unlocked, err := h.entitlementQueries.IsUnlocked(c.Request.Context(), userID, featureID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FeatureResponse{
		FeatureID: featureID,
		Unlocked:  unlocked,
	})
}

// @Summary Refresh entitlements
// @Description Trigger a reconciliation against the purchase ledger and wait for it
// @Tags entitlements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SnapshotResponse
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /entitlements/refresh [post]
func (h *EntitlementHandler) Refresh(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.entitlementCommands.Refresh(c.Request.Context(), userID); err != nil {
		switch {
		case errs.Is(err, shared.ErrLedgerUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Purchase ledger is unavailable",
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Reconciliation timed out",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	view, err := h.entitlementQueries.CurrentSnapshot(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	response, err := resdto.FromSnapshotView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Entitlement change feed
// @Description Upgrade to a websocket and push every snapshot published for the user
// @Tags entitlements
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} map[string]string
// @Router /entitlements/stream [get]
func (h *EntitlementHandler) Stream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	views, release, err := h.entitlementQueries.Watch(ctx, userID)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "watch failed"),
			time.Now().Add(streamWriteWait))
		return
	}
	defer release()

	// The client never sends data frames; reading only surfaces the close.
	go func() {
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case view, open := <-views:
			if !open {
				return
			}
			response, convErr := resdto.FromSnapshotView(&view)
			if convErr != nil {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if writeErr := conn.WriteJSON(response); writeErr != nil {
				return
			}
		}
	}
}
