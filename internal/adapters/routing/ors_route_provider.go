package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
)

// ORSRouteProvider fetches driving routes from the openrouteservice
// directions API. Responses are cached in a KV store keyed by the
// waypoint list, so repeated plans over the same template skip the
// upstream call entirely.
type ORSRouteProvider struct {
	baseURL  string
	apiKey   string
	profile  string
	session  *http.Client
	breaker  *gobreaker.CircuitBreaker
	cache    ports.KVStore
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewORSRouteProvider(
	baseURL string,
	apiKey string,
	cache ports.KVStore,
	cacheTTL time.Duration,
	log *zap.Logger,
) *ORSRouteProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ors",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &ORSRouteProvider{
		baseURL:  baseURL,
		apiKey:   apiKey,
		profile:  "driving-car",
		session:  &http.Client{Timeout: 15 * time.Second},
		breaker:  breaker,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"` // meters
				Duration float64 `json:"duration"` // seconds
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

func (o *ORSRouteProvider) GetRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (route *domain.LiveRoute, err error) {
	defer obs.Time(ctx, o.log, "ors.GetRoute")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("ors: need at least 2 waypoints, got %d", len(waypoints))
	}

	key := routeCacheKey(waypoints)
	if o.cache != nil {
		if cached, ok, cerr := o.cache.Get(ctx, key); cerr == nil && ok {
			var lr domain.LiveRoute
			if jerr := json.Unmarshal([]byte(cached), &lr); jerr == nil && lr.Valid() {
				return &lr, nil
			}
		}
	}

	lr, err := o.fetchRoute(ctx, waypoints)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if b, jerr := json.Marshal(lr); jerr == nil {
			if cerr := o.cache.Set(ctx, key, string(b), o.cacheTTL); cerr != nil {
				o.log.Warn("route cache write failed", zap.Error(cerr))
			}
		}
	}

	return lr, nil
}

func (o *ORSRouteProvider) fetchRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (*domain.LiveRoute, error) {
	payload := orsDirectionsRequest{Coordinates: make([][]float64, 0, len(waypoints))}
	for _, wp := range waypoints {
		payload.Coordinates = append(payload.Coordinates, wp.CoordsToList())
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ors: marshal directions request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, url, bytes.NewReader(body))
	})
	if err != nil {
		return nil, fmt.Errorf("ors: directions request: %w", err)
	}
	defer resp.Body.Close()

	var parsed orsDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ors: decode directions response: %w", err)
	}
	if len(parsed.Features) == 0 {
		return nil, fmt.Errorf("ors: directions response has no route")
	}

	feat := parsed.Features[0]
	polyline := make([]domain.Coordinates, 0, len(feat.Geometry.Coordinates))
	for _, c := range feat.Geometry.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("ors: malformed coordinate in route geometry")
		}
		polyline = append(polyline, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}

	lr := &domain.LiveRoute{
		Polyline:    polyline,
		DistanceKm:  feat.Properties.Summary.Distance / 1000.0,
		DurationMin: feat.Properties.Summary.Duration / 60.0,
	}
	if !lr.Valid() {
		return nil, fmt.Errorf("ors: directions response failed validation")
	}
	return lr, nil
}

// routeCacheKey fingerprints the waypoint list at ~1 m precision, enough
// that the same template always hits the same cache entry.
func routeCacheKey(waypoints []domain.Coordinates) string {
	var buf bytes.Buffer
	buf.WriteString("ors:route:")
	for _, wp := range waypoints {
		fmt.Fprintf(&buf, "%.5f,%.5f;", wp.Lon, wp.Lat)
	}
	return buf.String()
}
