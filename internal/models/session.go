// internal/models/session.go
package models

import "time"

// ServiceType identifies one external pricing service class.
type ServiceType string

const (
	ServiceFlight ServiceType = "flight"
	ServiceTrain  ServiceType = "train"
	ServiceGround ServiceType = "ground"
	ServiceParcel ServiceType = "parcel"
)

// CheckReason explains a budget decision for one prospective API call.
type CheckReason string

const (
	ReasonCacheHit       CheckReason = "CACHE_HIT"
	ReasonCacheMiss      CheckReason = "CACHE_MISS"
	ReasonForceRefresh   CheckReason = "FORCE_REFRESH"
	ReasonHardCapReached CheckReason = "HARD_CAP_REACHED"
)

// Session tracks external pricing usage for one route-calculation request.
// It is created when the calculation starts and discarded once the caller
// has retrieved the final results and stats.
type Session struct {
	ID             string              `json:"id"`
	HardCap        int                 `json:"hardCap"`
	Calls          int                 `json:"calls"`
	CallsByService map[ServiceType]int `json:"callsByService"`
	StaleParts     []string            `json:"staleParts"`
	CacheHits      int                 `json:"cacheHits"`
	CacheLookups   int                 `json:"cacheLookups"`
	StartedAt      time.Time           `json:"startedAt"`
}

// SessionReport is the session-scoped cost report exposed to the caller.
type SessionReport struct {
	SessionID      string              `json:"sessionId"`
	TotalCalls     int                 `json:"totalCalls"`
	HardCap        int                 `json:"hardCap"`
	RemainingCalls int                 `json:"remainingCalls"`
	CallsByService map[ServiceType]int `json:"callsByService"`
	StaleParts     []string            `json:"staleParts"`
	CacheHitRate   float64             `json:"cacheHitRate"`
}

// CacheEntry is one stored pricing payload. Entries are never deleted
// eagerly; freshness is re-evaluated lazily against the TTL on lookup.
type CacheEntry struct {
	Service   ServiceType `json:"service"`
	Key       string      `json:"key"`
	Payload   []byte      `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
