package geo

import (
	"math"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

const earthRadiusM = 6371007

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

// HaversineDistance. jarak (meter) dua koordinat, lebih murah dari GreatCircleDistance yang lewat s2.
func HaversineDistance(a, b datastructure.Coordinate) float64 {
	latA, latB := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := hav(latB-latA) + math.Cos(latA)*math.Cos(latB)*hav(dLon)
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PolylineLength. panjang polyline dalam meter, jadi bobot distance edge road network.
func PolylineLength(points []datastructure.Coordinate) float32 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += HaversineDistance(points[i-1], points[i])
	}
	return float32(total)
}
