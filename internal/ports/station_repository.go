package ports

import (
	"context"

	"ev-route-service/internal/domain"
)

// Port: a boundary for persisting canonical Station records.
type StationRepository interface {
	// Retrieve all persisted stations.
	ListStations(ctx context.Context) ([]domain.Station, error)
	// Upsert the given stations by id.
	UpsertStations(ctx context.Context, stations []domain.Station) error
}
