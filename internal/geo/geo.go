// internal/geo/geo.go

// Package geo provides the simplified distance model of the planner: a
// built-in gazetteer of served cities, great-circle distance between them,
// and the known rail pairs. It is a lookup model, not navigation-grade
// routing.
package geo

import (
	"math"
	"strings"
)

// Coordinates are immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// cities maps a normalised city name to coordinates. Covers the markets
// the service operates in; unknown cities fall back per Locate.
var cities = map[string]Coordinates{
	"london":    {51.5074, -0.1278},
	"paris":     {48.8566, 2.3522},
	"milan":     {45.4642, 9.1900},
	"nice":      {43.7102, 7.2620},
	"lyon":      {45.7640, 4.8357},
	"marseille": {43.2965, 5.3698},
	"zurich":    {47.3769, 8.5417},
	"geneva":    {46.2044, 6.1432},
	"madrid":    {40.4168, -3.7038},
	"barcelona": {41.3851, 2.1734},
	"berlin":    {52.5200, 13.4050},
	"munich":    {48.1351, 11.5820},
	"frankfurt": {50.1109, 8.6821},
	"amsterdam": {52.3676, 4.9041},
	"brussels":  {50.8503, 4.3517},
	"vienna":    {48.2082, 16.3738},
	"rome":      {41.9028, 12.4964},
	"florence":  {43.7696, 11.2558},
	"lisbon":    {38.7223, -9.1393},
	"copenhagen": {55.6761, 12.5683},
}

func normalise(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Locate returns the coordinates of a served city. The second return is
// false for cities outside the gazetteer.
func Locate(city string) (Coordinates, bool) {
	c, ok := cities[normalise(city)]
	return c, ok
}

// CityDistance returns the distance in km between two served cities.
// Returns false when either city is unknown; callers decide how to degrade.
func CityDistance(cityA, cityB string) (float64, bool) {
	a, okA := Locate(cityA)
	b, okB := Locate(cityB)
	if !okA || !okB {
		return 0, false
	}
	return Haversine(a, b), true
}

// railPairs lists city pairs with a usable direct rail connection. Order
// inside a pair is irrelevant.
var railPairs = map[[2]string]bool{
	{"london", "paris"}:    true,
	{"paris", "lyon"}:      true,
	{"paris", "brussels"}:  true,
	{"paris", "amsterdam"}: true,
	{"lyon", "marseille"}:  true,
	{"lyon", "geneva"}:     true,
	{"milan", "rome"}:      true,
	{"milan", "florence"}:  true,
	{"milan", "zurich"}:    true,
	{"zurich", "geneva"}:   true,
	{"berlin", "munich"}:   true,
	{"munich", "vienna"}:   true,
	{"frankfurt", "berlin"}: true,
	{"madrid", "barcelona"}: true,
	{"marseille", "nice"}:  true,
}

// HasRailRoute reports whether a known rail route exists between two cities.
func HasRailRoute(cityA, cityB string) bool {
	a, b := normalise(cityA), normalise(cityB)
	return railPairs[[2]string{a, b}] || railPairs[[2]string{b, a}]
}
