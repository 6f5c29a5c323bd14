package ports

import (
	"context"

	"ev-route-service/internal/domain"
)

// Port: a boundary for retrieving the canonical charging-station set,
// already merged across source feeds and deduplicated.
type StationProvider interface {
	// Return all stations usable for planning.
	ListStations(ctx context.Context) ([]domain.Station, error)
}
