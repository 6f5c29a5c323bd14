package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
)

type stubStations struct {
	stations []domain.Station
	err      error
}

func (s *stubStations) ListStations(_ context.Context) ([]domain.Station, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stations, nil
}

func newPlanHandler(stations []domain.Station) *PlanHandler {
	return &PlanHandler{
		Stations: &stubStations{stations: stations},
		Log:      zap.NewNop(),
	}
}

func postPlan(t *testing.T, h *PlanHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)
	return rec
}

func TestPlanHandlerHappyPath(t *testing.T) {
	h := newPlanHandler(nil)

	rec := postPlan(t, h, `{"template_id": "nicosia-limassol", "current_soc_pct": 90}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "nicosia-limassol", res.TemplateID)
	assert.Equal(t, "approx", res.RoutingMode)
	assert.NotEmpty(t, res.Polyline)
	assert.NotNil(t, res.Warnings)
	assert.NotNil(t, res.SuggestedStopStationIDs)
}

func TestPlanHandlerDefaultsZeroFields(t *testing.T) {
	h := newPlanHandler(nil)

	// Empty object: every field takes its documented default, and a
	// 90 km trip at 80% is directly reachable.
	rec := postPlan(t, h, `{"template_id": "nicosia-limassol"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.CanReachWithoutCharging)
}

func TestPlanHandlerRejectsUnknownFields(t *testing.T) {
	h := newPlanHandler(nil)

	rec := postPlan(t, h, `{"template_id": "nicosia-limassol", "vehicle": "kona"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandlerRejectsTrailingJSON(t *testing.T) {
	h := newPlanHandler(nil)

	rec := postPlan(t, h, `{"template_id": "x"} {"again": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandlerRejectsNegativeNumbers(t *testing.T) {
	h := newPlanHandler(nil)

	rec := postPlan(t, h, `{"battery_kwh": -5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postPlan(t, h, `{"max_stops": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandlerStationProviderFailure(t *testing.T) {
	h := &PlanHandler{
		Stations: &stubStations{err: errors.New("all feeds down")},
		Log:      zap.NewNop(),
	}

	rec := postPlan(t, h, `{"template_id": "nicosia-limassol"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
