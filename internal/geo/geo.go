// Package geo provides the planar and spherical geometry used for
// route-corridor matching. The planar helpers use an equirectangular
// approximation anchored at the mean latitude of the reference polyline;
// that is accurate to well under 0.5% at country scale (a few hundred km)
// and must not be used for global-scale geometry.
package geo

import (
	"math"

	"ev-route-service/internal/domain"
)

const (
	earthRadiusKm     = 6371.0
	earthRadiusMeters = 6_371_000.0
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b domain.Coordinates) float64 {
	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// PolylineDistanceKm sums the great-circle distances of consecutive
// polyline points. Empty or single-point polylines have length 0.
func PolylineDistanceKm(points []domain.Coordinates) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// PolylineProjection is the nearest-point projection of a point onto a
// polyline: the smallest perpendicular distance found across all segments
// and that segment's cumulative along-route progress.
type PolylineProjection struct {
	LateralKm  float64
	ProgressKm float64
}

// planarXY converts a coordinate to local Cartesian meters using an
// equirectangular projection anchored at meanLatRad.
func planarXY(c domain.Coordinates, meanLatRad float64) (x, y float64) {
	x = earthRadiusMeters * degToRad(c.Lon) * math.Cos(meanLatRad)
	y = earthRadiusMeters * degToRad(c.Lat)
	return x, y
}

func meanLatRad(points []domain.Coordinates) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Lat
	}
	return degToRad(sum / float64(len(points)))
}

// ClosestPointOnPolyline projects a point onto every segment of the
// polyline (parametric t clamped to [0,1], degenerate segments get t=0)
// and returns the globally closest projection's lateral distance and
// along-route progress, both in km. The polyline needs at least 2 points.
func ClosestPointOnPolyline(p domain.Coordinates, polyline []domain.Coordinates) PolylineProjection {
	if len(polyline) < 2 {
		return PolylineProjection{LateralKm: math.Inf(1)}
	}

	phi0 := meanLatRad(polyline)
	px, py := planarXY(p, phi0)

	bestLateral := math.Inf(1)
	bestProgress := 0.0
	walked := 0.0

	for i := 1; i < len(polyline); i++ {
		ax, ay := planarXY(polyline[i-1], phi0)
		bx, by := planarXY(polyline[i], phi0)

		dx := bx - ax
		dy := by - ay
		lenSq := dx*dx + dy*dy

		t := 0.0
		if lenSq > 0 {
			t = ((px-ax)*dx + (py-ay)*dy) / lenSq
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}

		cx := ax + t*dx
		cy := ay + t*dy
		lateral := math.Hypot(px-cx, py-cy)

		if lateral < bestLateral {
			bestLateral = lateral
			bestProgress = walked + math.Hypot(cx-ax, cy-ay)
		}

		walked += math.Sqrt(lenSq)
	}

	return PolylineProjection{
		LateralKm:  bestLateral / 1000,
		ProgressKm: bestProgress / 1000,
	}
}
