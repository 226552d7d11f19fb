package geo

import "math"

// earthRadiusKm is the IUGG mean earth radius.
const earthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	alat := radians(a.Lat)
	blat := radians(b.Lat)
	dlat := blat - alat
	dlon := radians(b.Lon - a.Lon)

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(alat)*math.Cos(blat)*
			math.Sin(dlon/2)*math.Sin(dlon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
