package ports

import (
	"context"

	"ev-route-service/internal/domain"
)

// Contract for external road routing. Given an ordered list of waypoints
// it returns a routed polyline with total distance and duration.
//
// Implementations return an error on failure; callers fall back to the
// planner's approximate straight-polyline distance model.
type RouteProvider interface {
	GetRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.LiveRoute, error)
}
