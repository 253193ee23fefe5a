package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/service/mock_service"
	"github.com/accounter/ledgerhub.go/lib/store/inmemory"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

func TestLoadersAreScopedToRequestAndOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock_service.NewMockSettingsStore(ctrl)
	svc := &LedgerhubService{Logger: lecho.New(io.Discard), Settings: settings}

	ownerA, ownerB := uuid.New(), uuid.New()
	settings.EXPECT().
		OwnerSettings(gomock.Any(), gomock.Eq(ownerA)).
		Times(2).
		Return(&models.OwnerSettings{OwnerID: ownerA}, nil)
	settings.EXPECT().
		OwnerSettings(gomock.Any(), gomock.Eq(ownerB)).
		Times(1).
		Return(&models.OwnerSettings{OwnerID: ownerB}, nil)

	ctx := WithRequestCache(context.Background())
	for i := 0; i < 3; i++ {
		loaded, err := svc.loadersFor(ctx, ownerA).OwnerSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, ownerA, loaded.OwnerID)
	}
	loaded, err := svc.loadersFor(ctx, ownerB).OwnerSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, ownerB, loaded.OwnerID)

	// a new request starts from scratch
	next := WithRequestCache(context.Background())
	_, err = svc.loadersFor(next, ownerA).OwnerSettings(next)
	require.NoError(t, err)
}

func TestLoadersWithoutRequestCacheDoNotShare(t *testing.T) {
	svc := &LedgerhubService{}
	owner := uuid.New()
	ctx := context.Background()
	assert.NotSame(t, svc.loadersFor(ctx, owner), svc.loadersFor(ctx, owner))

	ctx = WithRequestCache(ctx)
	assert.Same(t, svc.loadersFor(ctx, owner), svc.loadersFor(ctx, owner))
}

func TestLoadersMemoizeRates(t *testing.T) {
	store := inmemory.NewStore("ILS")
	day := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	store.AddExchangeRate(models.ExchangeRate{Currency: "USD", Date: day, Rate: decimal.RequireFromString("3.7")})

	loaders := NewLoaders(uuid.New(), store, store)
	ctx := context.Background()
	rate, err := loaders.Rate(ctx, "USD", "ILS", day)
	require.NoError(t, err)
	assert.Equal(t, "3.7", rate.String())

	// later quotes for the same day do not leak into the request
	store.AddExchangeRate(models.ExchangeRate{Currency: "USD", Date: day, Rate: decimal.RequireFromString("3.9")})
	rate, err = loaders.Rate(ctx, "USD", "ILS", day)
	require.NoError(t, err)
	assert.Equal(t, "3.7", rate.String())

	_, err = loaders.Rate(ctx, "EUR", "ILS", day)
	assert.Error(t, err)
	_, cached := loaders.rateCache[rateKey{from: "EUR", to: "ILS", day: "2024-06-03"}]
	assert.False(t, cached)
}
