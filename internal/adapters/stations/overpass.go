package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ev-route-service/internal/domain"
)

// cyprusQuery selects charging-station nodes inside a bounding box
// covering the island.
const cyprusQuery = `[out:json][timeout:25];node["amenity"="charging_station"](34.4,32.2,35.8,34.7);out body;`

// OverpassSource pulls charging stations from the OpenStreetMap
// Overpass API. OSM has the broadest coverage but carries no live
// availability, so every record comes back with unknown status.
type OverpassSource struct {
	baseURL string
	session *http.Client
}

func NewOverpassSource(baseURL string) *OverpassSource {
	return &OverpassSource{
		baseURL: baseURL,
		session: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *OverpassSource) Name() string { return "overpass" }

type overpassResponse struct {
	Elements []struct {
		ID   int64             `json:"id"`
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func (s *OverpassSource) Fetch(ctx context.Context) ([]domain.Station, error) {
	form := url.Values{"data": {cyprusQuery}}

	resp, err := doWithRetry(ctx, s.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, s.baseURL+"/api/interpreter",
			strings.NewReader(form.Encode()),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("overpass: query: %w", err)
	}
	defer resp.Body.Close()

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("overpass: decode response: %w", err)
	}

	out := make([]domain.Station, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		st := domain.Station{
			ID:           fmt.Sprintf("osm-%d", el.ID),
			Name:         el.Tags["name"],
			Operator:     el.Tags["operator"],
			PowerText:    powerTextFromTags(el.Tags),
			Availability: domain.AvailabilityUnknown,
			Coord:        &domain.Coordinates{Lon: el.Lon, Lat: el.Lat},
		}
		out = append(out, st)
	}
	return out, nil
}

// powerTextFromTags picks the most descriptive power-related tag. OSM
// mappers record output in several places; any of them is good enough
// for the downstream numeric-token parse.
func powerTextFromTags(tags map[string]string) string {
	if v := tags["charging_station:output"]; v != "" {
		return v
	}
	for k, v := range tags {
		if strings.HasPrefix(k, "socket:") && strings.HasSuffix(k, ":output") && v != "" {
			return v
		}
	}
	return tags["maxpower"]
}
