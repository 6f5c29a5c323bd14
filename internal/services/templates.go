package services

import "ev-route-service/internal/domain"

// Built-in route places. Coordinates are town centers, WGS84 (lon, lat).
var (
	PlaceNicosia  = domain.RoutePlace{ID: "nicosia", Label: "Nicosia", Coord: domain.Coordinates{Lon: 33.3823, Lat: 35.1856}}
	PlaceLimassol = domain.RoutePlace{ID: "limassol", Label: "Limassol", Coord: domain.Coordinates{Lon: 33.0413, Lat: 34.6786}}
	PlaceLarnaca  = domain.RoutePlace{ID: "larnaca", Label: "Larnaca", Coord: domain.Coordinates{Lon: 33.6201, Lat: 34.9182}}
	PlacePaphos   = domain.RoutePlace{ID: "paphos", Label: "Paphos", Coord: domain.Coordinates{Lon: 32.4245, Lat: 34.7754}}
	PlaceAyiaNapa = domain.RoutePlace{ID: "ayia-napa", Label: "Ayia Napa", Coord: domain.Coordinates{Lon: 33.9823, Lat: 34.9880}}
	PlaceTroodos  = domain.RoutePlace{ID: "troodos", Label: "Troodos Square", Coord: domain.Coordinates{Lon: 32.8833, Lat: 34.9220}}
	PlacePolis    = domain.RoutePlace{ID: "polis", Label: "Polis Chrysochous", Coord: domain.Coordinates{Lon: 32.4264, Lat: 35.0345}}
)

// DefaultTemplates returns the built-in Cyprus route presets. Polylines
// are coarse motorway approximations; the planner rescales them with the
// road-distance factor or replaces them with a live-routed polyline.
func DefaultTemplates() []domain.RouteTemplate {
	return []domain.RouteTemplate{
		{
			ID:    "nicosia-limassol",
			Label: "Nicosia → Limassol (A1)",
			Start: PlaceNicosia,
			End:   PlaceLimassol,
			Polyline: []domain.Coordinates{
				PlaceNicosia.Coord,
				{Lon: 33.3355, Lat: 35.0512},
				{Lon: 33.2304, Lat: 34.8997},
				{Lon: 33.1122, Lat: 34.7680},
				PlaceLimassol.Coord,
			},
		},
		{
			ID:    "nicosia-larnaca",
			Label: "Nicosia → Larnaca (A2)",
			Start: PlaceNicosia,
			End:   PlaceLarnaca,
			Polyline: []domain.Coordinates{
				PlaceNicosia.Coord,
				{Lon: 33.4572, Lat: 35.0901},
				{Lon: 33.5660, Lat: 34.9905},
				PlaceLarnaca.Coord,
			},
		},
		{
			ID:    "nicosia-paphos",
			Label: "Nicosia → Paphos (A1/A6)",
			Start: PlaceNicosia,
			End:   PlacePaphos,
			Polyline: []domain.Coordinates{
				PlaceNicosia.Coord,
				{Lon: 33.2304, Lat: 34.8997},
				PlaceLimassol.Coord,
				{Lon: 32.8254, Lat: 34.6967},
				{Lon: 32.5871, Lat: 34.7262},
				PlacePaphos.Coord,
			},
		},
		{
			ID:    "limassol-paphos",
			Label: "Limassol → Paphos (A6)",
			Start: PlaceLimassol,
			End:   PlacePaphos,
			Polyline: []domain.Coordinates{
				PlaceLimassol.Coord,
				{Lon: 32.8254, Lat: 34.6967},
				{Lon: 32.5871, Lat: 34.7262},
				PlacePaphos.Coord,
			},
		},
		{
			ID:    "larnaca-ayia-napa",
			Label: "Larnaca → Ayia Napa (A3)",
			Start: PlaceLarnaca,
			End:   PlaceAyiaNapa,
			Polyline: []domain.Coordinates{
				PlaceLarnaca.Coord,
				{Lon: 33.7823, Lat: 34.9730},
				PlaceAyiaNapa.Coord,
			},
		},
		{
			ID:    "nicosia-troodos",
			Label: "Nicosia → Troodos (B9)",
			Start: PlaceNicosia,
			End:   PlaceTroodos,
			Polyline: []domain.Coordinates{
				PlaceNicosia.Coord,
				{Lon: 33.1993, Lat: 35.1004},
				{Lon: 33.0440, Lat: 34.9886},
				PlaceTroodos.Coord,
			},
		},
		{
			ID:    "limassol-troodos",
			Label: "Limassol → Troodos (B8)",
			Start: PlaceLimassol,
			End:   PlaceTroodos,
			Polyline: []domain.Coordinates{
				PlaceLimassol.Coord,
				{Lon: 32.9480, Lat: 34.8150},
				PlaceTroodos.Coord,
			},
		},
		{
			ID:    "paphos-polis",
			Label: "Paphos → Polis (B7)",
			Start: PlacePaphos,
			End:   PlacePolis,
			Polyline: []domain.Coordinates{
				PlacePaphos.Coord,
				{Lon: 32.4470, Lat: 34.9031},
				PlacePolis.Coord,
			},
		},
	}
}

// resolveTemplate picks the template matching id. An empty id selects the
// first template; an unknown id falls back to the first template and
// reports false so the planner can attach a warning.
func resolveTemplate(templates []domain.RouteTemplate, id string) (domain.RouteTemplate, bool) {
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}
	if id == "" {
		return templates[0], true
	}
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return templates[0], false
}
