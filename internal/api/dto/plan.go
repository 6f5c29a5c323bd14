package dto

type PlanRequest struct {
	TemplateID            string   `json:"template_id"`
	CurrentSocPct         float64  `json:"current_soc_pct"`
	BatteryKwh            float64  `json:"battery_kwh"`
	ConsumptionKwhPer100  float64  `json:"consumption_kwh_per_100km"`
	ArrivalSocPct         float64  `json:"arrival_soc_pct"`
	ChargeToSocPct        float64  `json:"charge_to_soc_pct"`
	MaxChargeRateKw       float64  `json:"max_charge_rate_kw"`
	CorridorKm            float64  `json:"corridor_km"`
	FastOnly              bool     `json:"fast_only"`
	AvailableOnly         bool     `json:"available_only"`
	MaxStops              *int     `json:"max_stops"`
	UseLiveRouting        *bool    `json:"use_live_routing"`
}

type CoordinateResponse struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type ChargeStopResponse struct {
	StationID      string  `json:"station_id"`
	StationName    string  `json:"station_name"`
	StationPowerKw float64 `json:"station_power_kw"`
	TargetSocPct   float64 `json:"target_soc_pct"`
	AddedKwh       float64 `json:"added_kwh"`
	EstMinutes     int     `json:"est_minutes"`
	Note           string  `json:"note,omitempty"`
}

type PlanLegResponse struct {
	FromLabel    string              `json:"from_label"`
	ToLabel      string              `json:"to_label"`
	DistanceKm   float64             `json:"distance_km"`
	DepartSocPct float64             `json:"depart_soc_pct"`
	ArriveSocPct float64             `json:"arrive_soc_pct"`
	ChargeStop   *ChargeStopResponse `json:"charge_stop,omitempty"`
}

type PlanResponse struct {
	Ok                      bool                 `json:"ok"`
	TemplateID              string               `json:"template_id"`
	TemplateLabel           string               `json:"template_label"`
	Polyline                []CoordinateResponse `json:"polyline"`
	TotalDistanceKm         float64              `json:"total_distance_km"`
	DriveDurationMin        *float64             `json:"drive_duration_min,omitempty"`
	RoutingMode             string               `json:"routing_mode"`
	ArrivalSocNoChargePct   float64              `json:"arrival_soc_no_charge_pct"`
	CanReachWithoutCharging bool                 `json:"can_reach_without_charging"`
	Legs                    []PlanLegResponse    `json:"legs"`
	SuggestedStopStationIDs []string             `json:"suggested_stop_station_ids"`
	Warnings                []string             `json:"warnings"`
}
