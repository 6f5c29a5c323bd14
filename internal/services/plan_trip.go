package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
)

// Live routing accepts the whole template polyline as waypoints up to
// this count; longer polylines fall back to start/end only.
const maxLiveWaypoints = 8

// PlanTrip resolves the station set and (optionally) a live route, then
// runs the pure charging planner. A live-routing failure is not fatal:
// the planner falls back to its approximate distance model.
func PlanTrip(
	ctx context.Context,
	input domain.RoutePlanInput,
	templates []domain.RouteTemplate,
	stationProvider ports.StationProvider,
	routeProvider ports.RouteProvider,
	log *zap.Logger,
) (domain.RoutePlanResult, error) {
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}

	stations, err := stationProvider.ListStations(ctx)
	if err != nil {
		return domain.RoutePlanResult{}, fmt.Errorf("plan trip: list stations: %w", err)
	}

	if input.LiveRoute == nil && routeProvider != nil {
		tpl, _ := resolveTemplate(templates, input.TemplateID)
		waypoints := tpl.Polyline
		if len(waypoints) > maxLiveWaypoints {
			waypoints = []domain.Coordinates{tpl.Start.Coord, tpl.End.Coord}
		}

		live, err := routeProvider.GetRoute(ctx, waypoints)
		if err != nil {
			log.Warn("live routing failed, using approximate distances",
				zap.String("template", tpl.ID),
				zap.Error(err),
			)
		} else {
			input.LiveRoute = live
		}
	}

	return PlanChargeRoute(stations, input, templates), nil
}
