package domain

import "strings"

// RoutePlace is a named point of interest usable as a route endpoint or
// via-stop. Immutable reference data.
type RoutePlace struct {
	ID    string
	Label string
	Coord Coordinates
}

// RouteTemplate is a named route composed of an ordered polyline.
// The first and last polyline points correspond to Start and End.
// Templates are either built-in presets or constructed ad hoc from
// user-picked places via NewCustomTemplate.
type RouteTemplate struct {
	ID       string
	Label    string
	Start    RoutePlace
	End      RoutePlace
	Polyline []Coordinates
}

// Route ids carrying this marker get an informational elevation warning
// from the planner. The hint never changes numeric outputs.
const MountainRouteMarker = "troodos"

// Whether the route crosses the Troodos range, judged from its id.
func (t RouteTemplate) IsMountainous() bool {
	return strings.Contains(strings.ToLower(t.ID), MountainRouteMarker)
}

// NewCustomTemplate builds an ad hoc template from an origin, a
// destination and optional via places. The polyline is the straight
// sequence of the picked points; callers wanting road-accurate geometry
// resolve a live route on top of it.
func NewCustomTemplate(origin, destination RoutePlace, vias ...RoutePlace) RouteTemplate {
	polyline := make([]Coordinates, 0, 2+len(vias))
	polyline = append(polyline, origin.Coord)
	for _, v := range vias {
		polyline = append(polyline, v.Coord)
	}
	polyline = append(polyline, destination.Coord)

	return RouteTemplate{
		ID:       "custom-" + origin.ID + "-" + destination.ID,
		Label:    origin.Label + " → " + destination.Label,
		Start:    origin,
		End:      destination,
		Polyline: polyline,
	}
}
