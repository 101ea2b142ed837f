package geo

import (
	"math"
	"time"

	"github.com/tidwall/geodesic"
)

type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Valid reports whether the point lies within latitude [-90,90] and longitude [-180,180].
func (p Point) Valid() bool {
	return ValidLat(p.Lat) && ValidLng(p.Lng)
}

func ValidLat(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

func ValidLng(lng float64) bool {
	return !math.IsNaN(lng) && lng >= -180 && lng <= 180
}

// DistanceKm returns the geodesic distance between a and b in kilometres,
// rounded to 3 decimal places.
func DistanceKm(a, b Point) float64 {
	return Round(inverse(a, b)/1000, 3)
}

// DistanceM returns the geodesic distance between a and b in metres,
// rounded to 2 decimal places.
func DistanceM(a, b Point) float64 {
	return Round(inverse(a, b), 2)
}

// PathKm sums the legs of a polyline.
func PathKm(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += DistanceKm(points[i-1], points[i])
	}
	return Round(total, 3)
}

// ElapsedSeconds returns the whole seconds from start to end. The result is
// negative when end precedes start; callers decide how to treat that.
func ElapsedSeconds(end, start time.Time) int {
	return int(end.Sub(start) / time.Second)
}

func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// inverse returns the WGS-84 geodesic distance in metres.
func inverse(a, b Point) float64 {
	if a == b {
		return 0
	}
	var metres float64
	geodesic.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, &metres, nil, nil)
	return metres
}
