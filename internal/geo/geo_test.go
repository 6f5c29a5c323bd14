package geo

import (
	"math"
	"testing"

	"ev-route-service/internal/domain"
)

// One degree of latitude is exactly R * pi/180 km under haversine.
const oneDegreeLatKm = earthRadiusKm * math.Pi / 180

func TestHaversineKm(t *testing.T) {
	a := domain.Coordinates{Lon: 33.0, Lat: 35.0}

	if d := HaversineKm(a, a); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}

	b := domain.Coordinates{Lon: 33.0, Lat: 36.0}
	d := HaversineKm(a, b)
	if math.Abs(d-oneDegreeLatKm) > 1e-9 {
		t.Errorf("1 degree of latitude = %v km, want %v", d, oneDegreeLatKm)
	}

	if back := HaversineKm(b, a); math.Abs(back-d) > 1e-12 {
		t.Errorf("distance is not symmetric: %v vs %v", d, back)
	}
}

func TestPolylineDistanceKm(t *testing.T) {
	if d := PolylineDistanceKm(nil); d != 0 {
		t.Errorf("empty polyline distance = %v, want 0", d)
	}
	if d := PolylineDistanceKm([]domain.Coordinates{{Lon: 33, Lat: 35}}); d != 0 {
		t.Errorf("single-point polyline distance = %v, want 0", d)
	}

	points := []domain.Coordinates{
		{Lon: 33.0, Lat: 34.0},
		{Lon: 33.0, Lat: 35.0},
		{Lon: 33.0, Lat: 36.0},
	}
	d := PolylineDistanceKm(points)
	if math.Abs(d-2*oneDegreeLatKm) > 1e-9 {
		t.Errorf("polyline distance = %v km, want %v", d, 2*oneDegreeLatKm)
	}
}

func TestClosestPointOnPolyline(t *testing.T) {
	// East-west polyline along the 35th parallel: the planar projection is
	// anchored exactly at the polyline latitude, so expected values are exact.
	polyline := []domain.Coordinates{
		{Lon: 33.0, Lat: 35.0},
		{Lon: 33.5, Lat: 35.0},
		{Lon: 34.0, Lat: 35.0},
	}
	segmentKm := earthRadiusKm * degToRad(0.5) * math.Cos(degToRad(35))

	// Point 0.1 degrees north of the first segment junction.
	p := domain.Coordinates{Lon: 33.5, Lat: 35.1}
	proj := ClosestPointOnPolyline(p, polyline)

	wantLateral := oneDegreeLatKm / 10
	if math.Abs(proj.LateralKm-wantLateral) > 0.01 {
		t.Errorf("lateral = %v km, want %v", proj.LateralKm, wantLateral)
	}
	if math.Abs(proj.ProgressKm-segmentKm) > 0.01 {
		t.Errorf("progress = %v km, want %v", proj.ProgressKm, segmentKm)
	}
}

func TestClosestPointOnPolylineClampsToSegment(t *testing.T) {
	polyline := []domain.Coordinates{
		{Lon: 33.0, Lat: 35.0},
		{Lon: 34.0, Lat: 35.0},
	}

	// Point west of the route start: projection clamps to t=0.
	p := domain.Coordinates{Lon: 32.5, Lat: 35.0}
	proj := ClosestPointOnPolyline(p, polyline)

	if proj.ProgressKm != 0 {
		t.Errorf("progress = %v km, want 0 (clamped to route start)", proj.ProgressKm)
	}

	wantLateral := earthRadiusKm * degToRad(0.5) * math.Cos(degToRad(35))
	if math.Abs(proj.LateralKm-wantLateral) > 0.01 {
		t.Errorf("lateral = %v km, want %v", proj.LateralKm, wantLateral)
	}
}

func TestClosestPointOnPolylineDegenerateSegment(t *testing.T) {
	// Repeated points produce zero-length segments; these must not panic
	// and must not win over a genuinely closer segment.
	polyline := []domain.Coordinates{
		{Lon: 33.0, Lat: 35.0},
		{Lon: 33.0, Lat: 35.0},
		{Lon: 34.0, Lat: 35.0},
	}

	p := domain.Coordinates{Lon: 33.5, Lat: 35.0}
	proj := ClosestPointOnPolyline(p, polyline)

	if proj.LateralKm > 0.001 {
		t.Errorf("lateral = %v km, want ~0 for on-route point", proj.LateralKm)
	}
}

func TestClosestPointOnPolylineTooShort(t *testing.T) {
	proj := ClosestPointOnPolyline(domain.Coordinates{}, []domain.Coordinates{{Lon: 33, Lat: 35}})
	if !math.IsInf(proj.LateralKm, 1) {
		t.Errorf("lateral = %v, want +Inf for sub-2-point polyline", proj.LateralKm)
	}
}
