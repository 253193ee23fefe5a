package service

import (
	"context"
	"sync"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger/generators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type requestCacheKey struct{}

// RequestCache holds the loaders of one logical request. It lives in the
// request context and is dropped with it.
type RequestCache struct {
	mu      sync.Mutex
	byOwner map[uuid.UUID]*Loaders
}

// WithRequestCache returns a context carrying a fresh RequestCache.
func WithRequestCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestCacheKey{}, &RequestCache{byOwner: map[uuid.UUID]*Loaders{}})
}

func requestCacheFrom(ctx context.Context) *RequestCache {
	cache, _ := ctx.Value(requestCacheKey{}).(*RequestCache)
	return cache
}

type rateKey struct {
	from string
	to   string
	day  string
}

// Loaders memoizes tenant wide reads for a single owner: the owner settings
// and exchange rates. Charges and ledger records are never cached since their
// lock state may change between calls.
type Loaders struct {
	ownerID  uuid.UUID
	settings SettingsStore
	rates    generators.ExchangeRateProvider

	mu            sync.Mutex
	ownerSettings *models.OwnerSettings
	rateCache     map[rateKey]decimal.Decimal
}

func NewLoaders(ownerID uuid.UUID, settings SettingsStore, rates generators.ExchangeRateProvider) *Loaders {
	return &Loaders{
		ownerID:   ownerID,
		settings:  settings,
		rates:     rates,
		rateCache: map[rateKey]decimal.Decimal{},
	}
}

func (svc *LedgerhubService) loadersFor(ctx context.Context, ownerID uuid.UUID) *Loaders {
	cache := requestCacheFrom(ctx)
	if cache == nil {
		return NewLoaders(ownerID, svc.Settings, svc.Rates)
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	loaders, ok := cache.byOwner[ownerID]
	if !ok {
		loaders = NewLoaders(ownerID, svc.Settings, svc.Rates)
		cache.byOwner[ownerID] = loaders
	}
	return loaders
}

func (l *Loaders) OwnerID() uuid.UUID {
	return l.ownerID
}

func (l *Loaders) OwnerSettings(ctx context.Context) (*models.OwnerSettings, error) {
	l.mu.Lock()
	cached := l.ownerSettings
	l.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	settings, err := l.settings.OwnerSettings(ctx, l.ownerID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.ownerSettings = settings
	l.mu.Unlock()
	return settings, nil
}

// Rate implements generators.ExchangeRateProvider. Failures are not cached.
func (l *Loaders) Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	key := rateKey{from: from, to: to, day: on.Format("2006-01-02")}
	l.mu.Lock()
	rate, ok := l.rateCache[key]
	l.mu.Unlock()
	if ok {
		return rate, nil
	}
	rate, err := l.rates.Rate(ctx, from, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	l.mu.Lock()
	l.rateCache[key] = rate
	l.mu.Unlock()
	return rate, nil
}
