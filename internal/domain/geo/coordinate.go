package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

const areaPrecision = 5

// Coordinate is a (latitude, longitude) pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Origin is the sentinel location used when a visitor cannot be located.
var Origin = Coordinate{}

// LonLat is a coordinate pair as persisted on listings: longitude first.
type LonLat [2]float64

// Coordinate swaps the stored [lon, lat] order into a Coordinate.
func (p LonLat) Coordinate() Coordinate {
	return Coordinate{Lat: p[1], Lon: p[0]}
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Area returns a coarse geohash cell (~5km) for the coordinate.
func (c Coordinate) Area() string {
	return geohash.EncodeWithPrecision(c.Lat, c.Lon, areaPrecision)
}
