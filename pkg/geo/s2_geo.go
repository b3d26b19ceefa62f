package geo

import (
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

func toS2Point(c datastructure.Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// GreatCircleDistance. jarak dalam meter.
func GreatCircleDistance(a, b datastructure.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() * earthRadiusM
}

// PointLinePerpendicularDistance. jarak (meter) titik p ke segment a-b.
func PointLinePerpendicularDistance(a, b, p datastructure.Coordinate) float64 {
	return s2.DistanceFromSegment(toS2Point(p), toS2Point(a), toS2Point(b)).Radians() * earthRadiusM
}

// ProjectPointToLineCoord. proyeksi p ke segment a-b.
func ProjectPointToLineCoord(a, b, p datastructure.Coordinate) datastructure.Coordinate {
	projection := s2.Project(toS2Point(p), toS2Point(a), toS2Point(b))
	ll := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees())
}
