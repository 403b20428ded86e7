//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"entitlement-service/internal/handler/api"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/usecase/shared"
	"entitlement-service/tests/common/httptest"
	commandsmock "entitlement-service/tests/mock/commands"
	queriesmock "entitlement-service/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EntitlementHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockQueries  *queriesmock.MockEntitlementQueries
	mockCommands *commandsmock.MockEntitlementCommands
	handler      *api.EntitlementHandler
}

func (s *EntitlementHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockEntitlementQueries(s.mockCtrl)
	s.mockCommands = commandsmock.NewMockEntitlementCommands(s.mockCtrl)
	s.handler = api.NewEntitlementHandler(s.mockQueries, s.mockCommands)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Next()
	}

	s.router.GET("/entitlements", authMiddleware, s.handler.GetSnapshot)
	s.router.GET("/entitlements/features/:feature_id", authMiddleware, s.handler.GetFeature)
	s.router.POST("/entitlements/refresh", authMiddleware, s.handler.Refresh)
}

func (s *EntitlementHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEntitlementHandlerSuite(t *testing.T) {
	suite.Run(t, new(EntitlementHandlerTestSuite))
}

func snapshotView() *queries.SnapshotView {
	return &queries.SnapshotView{
		IsSubscribed: false,
		OwnedUnits:   []string{"unit.move"},
		ObservedAt:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *EntitlementHandlerTestSuite) TestGetSnapshot() {
	url := "/entitlements"

	s.Run("success: returns the current snapshot", func() {
		s.mockQueries.EXPECT().CurrentSnapshot(gomock.Any(), gomock.Any()).
			Return(snapshotView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.SnapshotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.IsSubscribed)
		s.Equal([]string{"unit.move"}, body.OwnedUnits)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *EntitlementHandlerTestSuite) TestGetFeature() {
	s.Run("success: reports unlocked feature", func() {
		s.mockQueries.EXPECT().IsUnlocked(gomock.Any(), gomock.Any(), "unit.move").
			Return(true, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/entitlements/features/unit.move", nil, "bearer-token")

		var body resdto.FeatureResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("unit.move", body.FeatureID)
		s.True(body.Unlocked)
	})

	s.Run("success: reports locked feature", func() {
		s.mockQueries.EXPECT().IsUnlocked(gomock.Any(), gomock.Any(), "unit.family").
			Return(false, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/entitlements/features/unit.family", nil, "bearer-token")

		var body resdto.FeatureResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.Unlocked)
	})
}

func (s *EntitlementHandlerTestSuite) TestRefresh() {
	url := "/entitlements/refresh"

	s.Run("success: reconciles and returns the fresh snapshot", func() {
		s.mockCommands.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		s.mockQueries.EXPECT().CurrentSnapshot(gomock.Any(), gomock.Any()).
			Return(snapshotView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.SnapshotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal([]string{"unit.move"}, body.OwnedUnits)
	})

	s.Run("error: 502 when the ledger is unavailable", func() {
		s.mockCommands.EXPECT().Refresh(gomock.Any(), gomock.Any()).
			Return(errs.Mark(errors.New("connection refused"), shared.ErrLedgerUnavailable)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "ledger is unavailable")
	})

	s.Run("error: 500 on unexpected failures", func() {
		s.mockCommands.EXPECT().Refresh(gomock.Any(), gomock.Any()).
			Return(errors.New("boom")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
