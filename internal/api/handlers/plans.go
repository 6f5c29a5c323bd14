package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
)

type PlanHandler struct {
	Stations ports.StationProvider
	Routes   ports.RouteProvider
	Log      *zap.Logger
}

// Plan computes a charging itinerary for one trip. Zero-valued numeric
// fields take documented defaults; the planner itself clamps everything
// to sane bounds, so validation here only rejects what cannot possibly
// be meant (negative numbers).
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.CurrentSocPct < 0 || req.BatteryKwh < 0 || req.ConsumptionKwhPer100 < 0 ||
		req.ArrivalSocPct < 0 || req.ChargeToSocPct < 0 || req.MaxChargeRateKw < 0 ||
		req.CorridorKm < 0 {
		writeError(w, r, http.StatusBadRequest, "numeric fields must not be negative")
		return
	}
	if req.MaxStops != nil && *req.MaxStops < 0 {
		writeError(w, r, http.StatusBadRequest, "max_stops must not be negative")
		return
	}

	input := toPlanInput(req)

	routes := h.Routes
	if req.UseLiveRouting != nil && !*req.UseLiveRouting {
		routes = nil
	}

	result, err := services.PlanTrip(r.Context(), input, nil, h.Stations, routes, h.Log)
	if err != nil {
		h.Log.Error("plan trip failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(result))
}

func toPlanInput(req dto.PlanRequest) domain.RoutePlanInput {
	input := domain.RoutePlanInput{
		TemplateID:           req.TemplateID,
		CurrentSocPct:        req.CurrentSocPct,
		BatteryKwh:           req.BatteryKwh,
		ConsumptionKwhPer100: req.ConsumptionKwhPer100,
		ArrivalSocPct:        req.ArrivalSocPct,
		ChargeToSocPct:       req.ChargeToSocPct,
		MaxChargeRateKw:      req.MaxChargeRateKw,
		CorridorKm:           req.CorridorKm,
		FastOnly:             req.FastOnly,
		AvailableOnly:        req.AvailableOnly,
		MaxStops:             3,
	}

	if input.CurrentSocPct == 0 {
		input.CurrentSocPct = 80
	}
	if input.BatteryKwh == 0 {
		input.BatteryKwh = 60
	}
	if input.ConsumptionKwhPer100 == 0 {
		input.ConsumptionKwhPer100 = 18
	}
	if input.ArrivalSocPct == 0 {
		input.ArrivalSocPct = 10
	}
	if input.ChargeToSocPct == 0 {
		input.ChargeToSocPct = 80
	}
	if input.MaxChargeRateKw == 0 {
		input.MaxChargeRateKw = 150
	}
	if input.CorridorKm == 0 {
		input.CorridorKm = 10
	}
	if req.MaxStops != nil {
		input.MaxStops = *req.MaxStops
	}

	return input
}

func toPlanResponse(res domain.RoutePlanResult) dto.PlanResponse {
	out := dto.PlanResponse{
		Ok:                      res.Ok,
		TemplateID:              res.Template.ID,
		TemplateLabel:           res.Template.Label,
		TotalDistanceKm:         res.TotalDistanceKm,
		DriveDurationMin:        res.DriveDurationMin,
		RoutingMode:             string(res.RoutingMode),
		ArrivalSocNoChargePct:   res.ArrivalSocNoChargePct,
		CanReachWithoutCharging: res.CanReachWithoutCharging,
		Polyline:                make([]dto.CoordinateResponse, 0, len(res.Polyline)),
		Legs:                    make([]dto.PlanLegResponse, 0, len(res.Legs)),
		SuggestedStopStationIDs: res.SuggestedStopStationIDs,
		Warnings:                res.Warnings,
	}
	if out.SuggestedStopStationIDs == nil {
		out.SuggestedStopStationIDs = []string{}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}

	for _, c := range res.Polyline {
		out.Polyline = append(out.Polyline, dto.CoordinateResponse{Lon: c.Lon, Lat: c.Lat})
	}

	for _, leg := range res.Legs {
		dtoLeg := dto.PlanLegResponse{
			FromLabel:    leg.FromLabel,
			ToLabel:      leg.ToLabel,
			DistanceKm:   leg.DistanceKm,
			DepartSocPct: leg.DepartSocPct,
			ArriveSocPct: leg.ArriveSocPct,
		}
		if leg.ChargeStop != nil {
			dtoLeg.ChargeStop = &dto.ChargeStopResponse{
				StationID:      leg.ChargeStop.StationID,
				StationName:    leg.ChargeStop.StationName,
				StationPowerKw: leg.ChargeStop.StationPowerKw,
				TargetSocPct:   leg.ChargeStop.TargetSocPct,
				AddedKwh:       leg.ChargeStop.AddedKwh,
				EstMinutes:     leg.ChargeStop.EstMinutes,
				Note:           leg.ChargeStop.Note,
			}
		}
		out.Legs = append(out.Legs, dtoLeg)
	}

	return out
}
