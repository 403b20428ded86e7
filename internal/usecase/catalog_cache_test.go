//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/usecase"
	sharedmock "entitlement-service/tests/mock/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProductCatalogCache(t *testing.T) {
	meta := func(id, name, price string) ledger.ProductMetadata {
		return ledger.ProductMetadata{ID: ledger.ProductID(id), DisplayName: name, DisplayPrice: price}
	}

	t.Run("空の識別子リストはネットワークを呼ばない", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := sharedmock.NewMockLedgerGateway(ctrl)
		cache := usecase.NewProductCatalogCache(gateway)

		metas, err := cache.Products(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, metas)
	})

	t.Run("二回目の照会はキャッシュから返す", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := sharedmock.NewMockLedgerGateway(ctrl)
		gateway.EXPECT().FetchProducts(gomock.Any(), []ledger.ProductID{"pro.month"}).
			Return([]ledger.ProductMetadata{meta("pro.month", "Pro Monthly", "¥600")}, nil).
			Times(1)
		cache := usecase.NewProductCatalogCache(gateway)

		first, err := cache.Products(context.Background(), []ledger.ProductID{"pro.month"})
		require.NoError(t, err)
		second, err := cache.Products(context.Background(), []ledger.ProductID{"pro.month"})
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("cached result mismatch (-first +second):\n%s", diff)
		}
	})

	t.Run("未キャッシュ分のみをまとめて取得する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := sharedmock.NewMockLedgerGateway(ctrl)
		gateway.EXPECT().FetchProducts(gomock.Any(), []ledger.ProductID{"pro.month"}).
			Return([]ledger.ProductMetadata{meta("pro.month", "Pro Monthly", "¥600")}, nil)
		gateway.EXPECT().FetchProducts(gomock.Any(), []ledger.ProductID{"pro.year"}).
			Return([]ledger.ProductMetadata{meta("pro.year", "Pro Yearly", "¥6,000")}, nil)
		cache := usecase.NewProductCatalogCache(gateway)

		_, err := cache.Products(context.Background(), []ledger.ProductID{"pro.month"})
		require.NoError(t, err)

		metas, err := cache.Products(context.Background(), []ledger.ProductID{"pro.month", "pro.year"})
		require.NoError(t, err)
		require.Len(t, metas, 2)
		assert.Equal(t, "Pro Monthly", metas[0].DisplayName)
		assert.Equal(t, "Pro Yearly", metas[1].DisplayName)
	})

	t.Run("台帳が知らない識別子は結果から除外する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := sharedmock.NewMockLedgerGateway(ctrl)
		gateway.EXPECT().FetchProducts(gomock.Any(), gomock.Any()).
			Return([]ledger.ProductMetadata{meta("pro.month", "Pro Monthly", "¥600")}, nil)
		cache := usecase.NewProductCatalogCache(gateway)

		metas, err := cache.Products(context.Background(), []ledger.ProductID{"pro.month", "ghost.product"})
		require.NoError(t, err)
		require.Len(t, metas, 1)
		assert.Equal(t, ledger.ProductID("pro.month"), metas[0].ID)
	})

	t.Run("フェッチ失敗はそのまま返しキャッシュしない", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := sharedmock.NewMockLedgerGateway(ctrl)
		cause := errors.New("ledger down")
		gateway.EXPECT().FetchProducts(gomock.Any(), gomock.Any()).Return(nil, cause)
		cache := usecase.NewProductCatalogCache(gateway)

		_, err := cache.Products(context.Background(), []ledger.ProductID{"pro.month"})
		assert.ErrorIs(t, err, cause)
	})

	t.Run("single lookup returns nil for unknown identifiers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gateway := sharedmock.NewMockLedgerGateway(ctrl)
		gateway.EXPECT().FetchProducts(gomock.Any(), gomock.Any()).Return(nil, nil)
		cache := usecase.NewProductCatalogCache(gateway)

		got, err := cache.Product(context.Background(), "ghost.product")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
