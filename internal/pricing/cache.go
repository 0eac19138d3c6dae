// internal/pricing/cache.go
package pricing

import (
	"context"
	"encoding/json"
	"time"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/common/metrics"
	"aucta-logistics/internal/models"
)

// retentionFactor stretches the physical retention of an entry past its
// logical TTL so stale payloads remain servable.
const retentionFactor = 4

// Cache is the external pricing cache plus budget discipline. One Cache is
// owned by one engine instance; the store and session store are passed in
// by handle.
type Cache struct {
	store     Store
	sessions  *SessionStore
	providers map[models.ServiceType][]PricingProvider
	ttl       map[models.ServiceType]time.Duration
	timeout   time.Duration
	log       logger.Logger

	// now is swappable in tests to step across TTL boundaries.
	now func() time.Time
}

func NewCache(store Store, sessions *SessionStore, cfg config.PricingConfig, log logger.Logger) *Cache {
	ttl := make(map[models.ServiceType]time.Duration, len(cfg.TTL))
	for service, seconds := range cfg.TTL {
		ttl[models.ServiceType(service)] = time.Duration(seconds) * time.Second
	}

	return &Cache{
		store:     store,
		sessions:  sessions,
		providers: BuildProviderChains(cfg),
		ttl:       ttl,
		timeout:   time.Duration(cfg.ProviderTimeout) * time.Millisecond,
		log:       log,
		now:       time.Now,
	}
}

// SetProviders replaces the provider chain for a service. Used by tests
// and by callers injecting non-HTTP providers.
func (c *Cache) SetProviders(service models.ServiceType, providers []PricingProvider) {
	c.providers[service] = providers
}

// Sessions exposes the session store handle.
func (c *Cache) Sessions() *SessionStore {
	return c.sessions
}

func (c *Cache) ttlFor(service models.ServiceType) time.Duration {
	if d, ok := c.ttl[service]; ok {
		return d
	}
	return 4 * time.Hour
}

// CheckCall decides whether a live call should happen for this request.
// The decision is pure bookkeeping: it never performs the call and never
// increments the call counter, so checking twice without an intervening
// RecordCall yields the same decision.
func (c *Cache) CheckCall(ctx context.Context, sessionID string, service models.ServiceType, params QuoteParams, forceRefresh bool) Decision {
	key := BucketKey(service, params)

	var cachedQuote *Quote
	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("pricing cache read failed, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		found = false
	}

	if found {
		age := c.now().Sub(entry.Timestamp)
		if age <= c.ttlFor(service) {
			metrics.PricingCacheLookups.WithLabelValues(string(service), "hit").Inc()
			c.sessions.RecordLookup(sessionID, true)
			if !forceRefresh {
				return Decision{
					ShouldCall: false,
					Reason:     models.ReasonCacheHit,
					Cached:     c.decode(service, entry, true),
					StaleParts: c.sessions.StaleParts(sessionID),
				}
			}
			// Force refresh still keeps the fresh payload as the
			// degradation candidate in case every provider fails.
			cachedQuote = c.decode(service, entry, true)
		} else {
			// Stale hit: serve the payload as a candidate, flag the part,
			// and fall through to the live decision.
			metrics.PricingCacheLookups.WithLabelValues(string(service), "stale").Inc()
			c.sessions.RecordLookup(sessionID, false)
			c.sessions.RecordStalePart(sessionID, key)
			cachedQuote = c.decode(service, entry, false)
		}
	} else {
		metrics.PricingCacheLookups.WithLabelValues(string(service), "miss").Inc()
		c.sessions.RecordLookup(sessionID, false)
	}

	if forceRefresh {
		return Decision{
			ShouldCall: true,
			Reason:     models.ReasonForceRefresh,
			Cached:     cachedQuote,
			StaleParts: c.sessions.StaleParts(sessionID),
		}
	}

	if c.sessions.CapReached(sessionID) {
		metrics.PricingHardCapHits.Inc()
		return Decision{
			ShouldCall: false,
			Reason:     models.ReasonHardCapReached,
			Cached:     cachedQuote,
			StaleParts: c.sessions.StaleParts(sessionID),
		}
	}

	return Decision{
		ShouldCall: true,
		Reason:     models.ReasonCacheMiss,
		Cached:     cachedQuote,
		StaleParts: c.sessions.StaleParts(sessionID),
	}
}

// Resolve returns a quote for the request, walking the full discipline:
// fresh cache hit, then the ordered live provider chain under the session
// budget, then the stale payload, then the static fallback table. It
// always returns a usable quote; degraded data is labeled, not hidden.
func (c *Cache) Resolve(ctx context.Context, sessionID string, service models.ServiceType, params QuoteParams, forceRefresh bool) *Quote {
	decision := c.CheckCall(ctx, sessionID, service, params, forceRefresh)

	if !decision.ShouldCall {
		if decision.Cached != nil {
			return decision.Cached
		}
		// Hard cap with nothing cached: static table.
		return FallbackQuote(service, params)
	}

	if quote := c.callProviders(ctx, sessionID, service, params); quote != nil {
		return quote
	}

	// All providers failed or none configured. Prefer the stale payload
	// over the static table; both are explicit degradations.
	if decision.Cached != nil {
		return decision.Cached
	}

	fallback := FallbackQuote(service, params)
	c.put(ctx, service, params, fallback)
	return fallback
}

// callProviders walks the ordered chain with a bounded timeout per
// attempt. The first non-nil quote wins, is cached and counted; the rest
// of the chain is skipped. Provider errors advance the chain, nothing
// else.
func (c *Cache) callProviders(ctx context.Context, sessionID string, service models.ServiceType, params QuoteParams) *Quote {
	for _, provider := range c.providers[service] {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		quote, err := provider.Quote(attemptCtx, service, params)
		cancel()

		if err != nil {
			metrics.PricingProviderCalls.WithLabelValues(provider.Name(), "error").Inc()
			c.log.Warn("pricing provider failed, trying next", map[string]interface{}{
				"provider": provider.Name(),
				"service":  string(service),
				"error":    err.Error(),
			})
			continue
		}
		if quote == nil {
			metrics.PricingProviderCalls.WithLabelValues(provider.Name(), "empty").Inc()
			continue
		}

		metrics.PricingProviderCalls.WithLabelValues(provider.Name(), "ok").Inc()
		c.sessions.RecordCall(sessionID, service)
		c.put(ctx, service, params, quote)
		return quote
	}
	return nil
}

func (c *Cache) put(ctx context.Context, service models.ServiceType, params QuoteParams, quote *Quote) {
	payload, err := json.Marshal(quotePayload{
		Amount:        quote.Amount,
		Currency:      quote.Currency,
		DurationHours: quote.Duration.Hours(),
		Provider:      quote.Provider,
	})
	if err != nil {
		return
	}

	key := BucketKey(service, params)
	entry := &models.CacheEntry{
		Service:   service,
		Key:       key,
		Payload:   payload,
		Timestamp: c.now().UTC(),
	}
	if err := c.store.Set(ctx, key, entry, c.ttlFor(service)*retentionFactor); err != nil {
		c.log.Warn("pricing cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *Cache) decode(service models.ServiceType, entry *models.CacheEntry, fresh bool) *Quote {
	var payload quotePayload
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		return nil
	}
	return &Quote{
		Service:  service,
		Amount:   payload.Amount,
		Currency: payload.Currency,
		Duration: time.Duration(payload.DurationHours * float64(time.Hour)),
		Provider: payload.Provider,
		Source:   models.SourceCache,
		Fresh:    fresh,
	}
}
