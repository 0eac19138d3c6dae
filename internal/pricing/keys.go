// internal/pricing/keys.go
package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"aucta-logistics/internal/models"
)

// Time bucket widths per service. Coarse on purpose: two lookups inside
// the same bucket share one cache entry.
var timeBuckets = map[models.ServiceType]time.Duration{
	models.ServiceFlight: 4 * time.Hour,
	models.ServiceTrain:  6 * time.Hour,
	models.ServiceGround: 12 * time.Hour,
}

// weightBucketKG quantizes parcel weights.
const weightBucketKG = 5.0

func normPlace(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, " ", "")))
}

// BucketKey builds the cache key for one pricing request. Flights, trains
// and ground legs key off origin, destination and a coarse departure
// bucket; parcel services key off postcodes, a rounded weight bucket and
// the product.
func BucketKey(service models.ServiceType, params QuoteParams) string {
	if service == models.ServiceParcel {
		origin := params.OriginPostcode
		if origin == "" {
			origin = params.Origin
		}
		dest := params.DestPostcode
		if dest == "" {
			dest = params.Destination
		}
		bucket := WeightBucket(params.WeightKG)
		product := params.Product
		if product == "" {
			product = "standard"
		}
		return fmt.Sprintf("parcel:%s>%s:w%d:%s",
			normPlace(origin), normPlace(dest), int(bucket), normPlace(product))
	}

	width, ok := timeBuckets[service]
	if !ok {
		width = 4 * time.Hour
	}
	slot := params.DepartAt.UTC().Unix() / int64(width.Seconds())
	return fmt.Sprintf("%s:%s>%s:t%d",
		service, normPlace(params.Origin), normPlace(params.Destination), slot)
}

// WeightBucket rounds a weight up to the next bucket boundary.
func WeightBucket(weightKG float64) float64 {
	if weightKG <= 0 {
		return weightBucketKG
	}
	return math.Ceil(weightKG/weightBucketKG) * weightBucketKG
}
