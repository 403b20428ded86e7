//go:build e2e

package purchase_test

import (
	"net/http"
	"testing"

	reqdto "entitlement-service/internal/handler/dto/request"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/tests/common/authtest"
	"entitlement-service/tests/common/httptest"
	"entitlement-service/tests/common/ledgertest"
	"entitlement-service/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	subscriptionURL = "/api/purchases/subscription"
	unitsURL        = "/api/purchases/units"
	snapshotURL     = "/api/entitlements"
)

type purchaseSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestPurchaseSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(purchaseSuite))
}

func (s *purchaseSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *purchaseSuite) TestPurchaseSubscription() {
	s.Run("購入成功後にスナップショットへ反映される", func() {
		userID := uuid.New()
		token := s.jwtHelper.GenerateToken(s.T(), userID)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, subscriptionURL,
			reqdto.PurchaseSubscriptionRequest{ProductID: "pro.month"}, token)

		var body resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("success", body.Outcome)
		s.Equal(1, s.Ledger.PurchaseCalls())

		// The post-purchase refresh is synchronous; the snapshot must show
		// the subscription immediately.
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, snapshotURL, nil, token)

		var snap resdto.SnapshotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &snap)
		s.True(snap.IsSubscribed)
	})

	s.Run("キャンセルは200で台帳呼び出しは1回のみ", func() {
		userID := uuid.New()
		token := s.jwtHelper.GenerateToken(s.T(), userID)
		s.Ledger.ScriptPurchase("pro.month", ledgertest.PurchaseScript{Status: "cancelled"})

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, subscriptionURL,
			reqdto.PurchaseSubscriptionRequest{ProductID: "pro.month"}, token)

		var body resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Outcome)
		s.Equal(1, s.Ledger.PurchaseCalls())
	})

	s.Run("未検証付与は202 pendingを返す", func() {
		userID := uuid.New()
		token := s.jwtHelper.GenerateToken(s.T(), userID)
		s.Ledger.ScriptPurchase("pro.month", ledgertest.PurchaseScript{Status: "granted", Verified: false})

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, subscriptionURL,
			reqdto.PurchaseSubscriptionRequest{ProductID: "pro.month"}, token)

		var body resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Equal("pending", body.Outcome)

		// Unverified records never grant the subscription.
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, snapshotURL, nil, token)
		var snap resdto.SnapshotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &snap)
		s.False(snap.IsSubscribed)
	})

	s.Run("台帳の失敗は502を返す", func() {
		userID := uuid.New()
		token := s.jwtHelper.GenerateToken(s.T(), userID)
		s.Ledger.ScriptPurchase("pro.month", ledgertest.PurchaseScript{Status: "failed", Error: "payment declined"})

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, subscriptionURL,
			reqdto.PurchaseSubscriptionRequest{ProductID: "pro.month"}, token)

		s.Equal(http.StatusBadGateway, rec.Code)
		var body resdto.PurchaseResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal("failed", body.Outcome)
		s.Equal("ledger_error", body.Reason)
	})

	s.Run("非購読商品の指定は400を返す", func() {
		token := s.jwtHelper.GenerateToken(s.T(), uuid.New())

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, subscriptionURL,
			reqdto.PurchaseSubscriptionRequest{ProductID: "unit.move"}, token)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(0, s.Ledger.PurchaseCalls())
	})
}

func (s *purchaseSuite) TestPurchaseUnit() {
	s.Run("ユニット購入成功後に機能が解放される", func() {
		userID := uuid.New()
		token := s.jwtHelper.GenerateToken(s.T(), userID)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, unitsURL,
			reqdto.PurchaseUnitRequest{UnitID: "unit.move", ProductID: "unit.move"}, token)

		var body resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("success", body.Outcome)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, snapshotURL+"/features/unit.move", nil, token)
		var feature resdto.FeatureResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &feature)
		s.True(feature.Unlocked)
	})

	s.Run("ユニットと商品の不一致は400を返す", func() {
		token := s.jwtHelper.GenerateToken(s.T(), uuid.New())

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, unitsURL,
			reqdto.PurchaseUnitRequest{UnitID: "unit.move", ProductID: "unit.family"}, token)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(0, s.Ledger.PurchaseCalls())
	})
}
