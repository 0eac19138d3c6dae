// internal/pricing/cache_test.go
package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/models"
)

type stubProvider struct {
	name   string
	amount float64
	err    error
	empty  bool
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Quote(_ context.Context, service models.ServiceType, _ QuoteParams) (*Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.empty {
		return nil, nil
	}
	return &Quote{
		Service:  service,
		Amount:   decimal.NewFromFloat(s.amount),
		Currency: "EUR",
		Duration: 3 * time.Hour,
		Provider: s.name,
		Source:   models.SourceLive,
		Fresh:    true,
	}, nil
}

func newTestCache(t *testing.T, hardCap int) (*Cache, *SessionStore, string) {
	t.Helper()
	sessions := NewSessionStore()
	cfg := config.PricingConfig{
		SessionHardCap:  hardCap,
		ProviderTimeout: 500,
		TTL: map[string]int{
			"flight": 4 * 3600,
			"train":  6 * 3600,
			"ground": 12 * 3600,
			"parcel": 24 * 3600,
		},
	}
	cache := NewCache(NewMemoryStore(), sessions, cfg, logger.NewNoOpLogger())
	return cache, sessions, sessions.Open(hardCap)
}

func flightParams() QuoteParams {
	return QuoteParams{
		Origin:      "London",
		Destination: "Nice",
		DepartAt:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestCache_LiveThenCacheRoundTrip(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	provider := &stubProvider{name: "skyquote", amount: 410.50}
	cache.SetProviders(models.ServiceFlight, []PricingProvider{provider})
	ctx := context.Background()

	first := cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), false)
	require.NotNil(t, first)
	assert.Equal(t, models.SourceLive, first.Source)
	assert.True(t, first.Fresh)
	assert.Equal(t, 1, provider.calls)

	second := cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), false)
	require.NotNil(t, second)
	assert.Equal(t, models.SourceCache, second.Source)
	assert.True(t, second.Fresh)
	assert.True(t, first.Amount.Equal(second.Amount))
	assert.Equal(t, 1, provider.calls, "fresh hit must not call the provider again")
	assert.Equal(t, 1, sessions.Report(sid).TotalCalls)
}

func TestCache_StalePastTTL(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	provider := &stubProvider{name: "skyquote", amount: 410.50}
	cache.SetProviders(models.ServiceFlight, []PricingProvider{provider})
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return start }
	cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), false)

	// Step past the 4h flight TTL; the entry is stale but still retained.
	cache.now = func() time.Time { return start.Add(5 * time.Hour) }

	decision := cache.CheckCall(ctx, sid, models.ServiceFlight, flightParams(), false)
	assert.True(t, decision.ShouldCall)
	assert.Equal(t, models.ReasonCacheMiss, decision.Reason)
	require.NotNil(t, decision.Cached, "stale payload is still offered as a candidate")
	assert.False(t, decision.Cached.Fresh)
	assert.Contains(t, sessions.StaleParts(sid), BucketKey(models.ServiceFlight, flightParams()))
}

func TestCache_CheckCallIdempotent(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	ctx := context.Background()

	first := cache.CheckCall(ctx, sid, models.ServiceFlight, flightParams(), false)
	second := cache.CheckCall(ctx, sid, models.ServiceFlight, flightParams(), false)

	assert.Equal(t, first.ShouldCall, second.ShouldCall)
	assert.Equal(t, first.Reason, second.Reason)
	assert.Zero(t, sessions.Report(sid).TotalCalls, "checking never consumes the budget")
}

func TestCache_HardCapReached(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 8)
	provider := &stubProvider{name: "skyquote", amount: 300}
	cache.SetProviders(models.ServiceFlight, []PricingProvider{provider})
	ctx := context.Background()

	// Eight distinct lookups consume the whole budget.
	for i := 0; i < 8; i++ {
		params := flightParams()
		params.Destination = fmt.Sprintf("City-%d", i)
		quote := cache.Resolve(ctx, sid, models.ServiceFlight, params, false)
		assert.Equal(t, models.SourceLive, quote.Source)
	}
	require.Equal(t, 8, sessions.Report(sid).TotalCalls)

	ninth := flightParams()
	ninth.Destination = "City-9"
	decision := cache.CheckCall(ctx, sid, models.ServiceFlight, ninth, false)
	assert.False(t, decision.ShouldCall)
	assert.Equal(t, models.ReasonHardCapReached, decision.Reason)

	quote := cache.Resolve(ctx, sid, models.ServiceFlight, ninth, false)
	require.NotNil(t, quote)
	assert.Equal(t, models.SourceFallback, quote.Source)
	assert.Equal(t, 8, provider.calls, "capped lookup never reaches the provider")
	assert.Equal(t, 8, sessions.Report(sid).TotalCalls)
}

func TestCache_ProviderChainAdvancesOnError(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	broken := &stubProvider{name: "flaky", err: errors.New("boom")}
	empty := &stubProvider{name: "noprice", empty: true}
	working := &stubProvider{name: "railfare", amount: 95}
	cache.SetProviders(models.ServiceTrain, []PricingProvider{broken, empty, working})

	params := QuoteParams{Origin: "Paris", Destination: "Lyon", DepartAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)}
	quote := cache.Resolve(context.Background(), sid, models.ServiceTrain, params, false)

	require.NotNil(t, quote)
	assert.Equal(t, "railfare", quote.Provider)
	assert.Equal(t, models.SourceLive, quote.Source)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, sessions.Report(sid).TotalCalls, "only the winning call is counted")
}

func TestCache_AllProvidersFailFallsBackToStaticTable(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	broken := &stubProvider{name: "flaky", err: errors.New("boom")}
	cache.SetProviders(models.ServiceGround, []PricingProvider{broken})
	ctx := context.Background()

	params := QuoteParams{Origin: "Marseille", Destination: "Nice", DepartAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)}
	quote := cache.Resolve(ctx, sid, models.ServiceGround, params, false)

	require.NotNil(t, quote)
	assert.Equal(t, models.SourceFallback, quote.Source)
	assert.Equal(t, "static-table", quote.Provider)
	assert.Zero(t, sessions.Report(sid).TotalCalls)

	// The fallback quote is cached, so the next lookup is a cache hit.
	again := cache.Resolve(ctx, sid, models.ServiceGround, params, false)
	assert.Equal(t, models.SourceCache, again.Source)
	assert.Equal(t, 1, broken.calls)
}

func TestCache_FallbackIsDeterministic(t *testing.T) {
	params := QuoteParams{Origin: "Marseille", Destination: "Nice"}
	a := FallbackQuote(models.ServiceGround, params)
	b := FallbackQuote(models.ServiceGround, params)

	assert.True(t, a.Amount.Equal(b.Amount))
	assert.Equal(t, a.Duration, b.Duration)
	assert.False(t, a.Fresh)
}

func TestCache_ForceRefreshBypassesFreshHit(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	provider := &stubProvider{name: "skyquote", amount: 410.50}
	cache.SetProviders(models.ServiceFlight, []PricingProvider{provider})
	ctx := context.Background()

	cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), false)
	require.Equal(t, 1, provider.calls)

	decision := cache.CheckCall(ctx, sid, models.ServiceFlight, flightParams(), true)
	assert.True(t, decision.ShouldCall)
	assert.Equal(t, models.ReasonForceRefresh, decision.Reason)

	cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), true)
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, 2, sessions.Report(sid).TotalCalls)
}

func TestCache_ForceRefreshDegradesToFreshHitWhenProvidersFail(t *testing.T) {
	cache, sessions, sid := newTestCache(t, 10)
	working := &stubProvider{name: "skyquote", amount: 410.50}
	cache.SetProviders(models.ServiceFlight, []PricingProvider{working})
	ctx := context.Background()

	seeded := cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), false)
	require.Equal(t, models.SourceLive, seeded.Source)

	// The provider goes down between lookups; the fresh entry must win
	// over the static table.
	broken := &stubProvider{name: "skyquote", err: errors.New("boom")}
	cache.SetProviders(models.ServiceFlight, []PricingProvider{broken})

	quote := cache.Resolve(ctx, sid, models.ServiceFlight, flightParams(), true)
	require.NotNil(t, quote)
	assert.Equal(t, models.SourceCache, quote.Source)
	assert.True(t, quote.Fresh, "the entry is still inside its TTL")
	assert.True(t, quote.Amount.Equal(seeded.Amount))
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, sessions.Report(sid).TotalCalls, "failed refresh attempts never consume the budget")
}
