package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ev-route-service/internal/domain"
)

// OpenChargeMapSource pulls Cyprus charging stations from the Open
// Charge Map POI API. OCM records carry per-connection power ratings
// and an operational flag, which the merge overlays onto OSM records.
type OpenChargeMapSource struct {
	baseURL string
	apiKey  string
	session *http.Client
}

func NewOpenChargeMapSource(baseURL, apiKey string) *OpenChargeMapSource {
	return &OpenChargeMapSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		session: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *OpenChargeMapSource) Name() string { return "openchargemap" }

type ocmPOI struct {
	ID          int64 `json:"ID"`
	AddressInfo struct {
		Title     string  `json:"Title"`
		Latitude  float64 `json:"Latitude"`
		Longitude float64 `json:"Longitude"`
	} `json:"AddressInfo"`
	OperatorInfo *struct {
		Title string `json:"Title"`
	} `json:"OperatorInfo"`
	StatusType *struct {
		IsOperational *bool `json:"IsOperational"`
	} `json:"StatusType"`
	Connections []struct {
		PowerKW *float64 `json:"PowerKW"`
	} `json:"Connections"`
}

func (s *OpenChargeMapSource) Fetch(ctx context.Context) ([]domain.Station, error) {
	params := url.Values{
		"countrycode": {"CY"},
		"maxresults":  {"500"},
		"compact":     {"true"},
	}
	reqURL := s.baseURL + "/poi?" + params.Encode()

	resp, err := doWithRetry(ctx, s.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		if s.apiKey != "" {
			req.Header.Set("X-API-Key", s.apiKey)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("openchargemap: query: %w", err)
	}
	defer resp.Body.Close()

	var pois []ocmPOI
	if err := json.NewDecoder(resp.Body).Decode(&pois); err != nil {
		return nil, fmt.Errorf("openchargemap: decode response: %w", err)
	}

	out := make([]domain.Station, 0, len(pois))
	for _, poi := range pois {
		st := domain.Station{
			ID:           fmt.Sprintf("ocm-%d", poi.ID),
			Name:         poi.AddressInfo.Title,
			Availability: ocmAvailability(poi),
			Coord: &domain.Coordinates{
				Lon: poi.AddressInfo.Longitude,
				Lat: poi.AddressInfo.Latitude,
			},
		}
		if poi.OperatorInfo != nil {
			st.Operator = poi.OperatorInfo.Title
		}
		for _, conn := range poi.Connections {
			port := domain.StationPort{Availability: st.Availability}
			if conn.PowerKW != nil {
				port.PowerKw = *conn.PowerKW
			}
			st.Ports = append(st.Ports, port)
		}
		out = append(out, st)
	}
	return out, nil
}

func ocmAvailability(poi ocmPOI) domain.Availability {
	if poi.StatusType == nil || poi.StatusType.IsOperational == nil {
		return domain.AvailabilityUnknown
	}
	if *poi.StatusType.IsOperational {
		return domain.AvailabilityAvailable
	}
	return domain.AvailabilityOutOfService
}
