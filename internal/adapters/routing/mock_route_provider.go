package routing

import (
	"context"

	"ev-route-service/internal/domain"
)

// MockRouteProvider returns a fixed route or error. Used in tests and
// when no routing backend is configured.
type MockRouteProvider struct {
	Route *domain.LiveRoute
	Err   error
}

func (m *MockRouteProvider) GetRoute(
	_ context.Context,
	_ []domain.Coordinates,
) (*domain.LiveRoute, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Route, nil
}
