package domain

// RoutingMode records whether the plan used an externally routed polyline
// or the built-in straight-polyline approximation.
type RoutingMode string

const (
	RoutingModeApprox RoutingMode = "approx"
	RoutingModeLive   RoutingMode = "live"
)

// LiveRoute is a road-accurate polyline with totals, computed by an
// external routing provider. It supersedes the template's approximate
// polyline and distance when present and valid.
type LiveRoute struct {
	Polyline    []Coordinates
	DistanceKm  float64
	DurationMin float64
}

// Valid live routes need a drivable polyline and a positive distance.
func (r *LiveRoute) Valid() bool {
	return r != nil && len(r.Polyline) >= 2 && r.DistanceKm > 0
}

// RoutePlanInput is the full trip configuration for one planner run.
// Numeric fields are clamped to sane bounds before computation; non-finite
// values are replaced with defaults, never rejected.
type RoutePlanInput struct {
	TemplateID           string
	CurrentSocPct        float64
	BatteryKwh           float64
	ConsumptionKwhPer100 float64
	ArrivalSocPct        float64
	ChargeToSocPct       float64
	MaxChargeRateKw      float64
	CorridorKm           float64
	FastOnly             bool
	AvailableOnly        bool
	MaxStops             int
	LiveRoute            *LiveRoute
}

// ChargeStop describes the charging activity at one planned stop.
type ChargeStop struct {
	StationID      string
	StationName    string
	StationPowerKw float64
	TargetSocPct   float64
	AddedKwh       float64
	EstMinutes     int
	Note           string
}

// RoutePlanLeg is one driving segment of the computed itinerary.
// ChargeStop is nil for the final leg into the destination and for the
// single leg of a trip that needs no charging.
type RoutePlanLeg struct {
	FromLabel    string
	ToLabel      string
	DistanceKm   float64
	DepartSocPct float64
	ArriveSocPct float64
	ChargeStop   *ChargeStop
}

// RoutePlanResult is the complete planner output. The planner never
// errors: infeasibility and caveats are communicated through Ok and
// Warnings. All planner types are pure value objects computed fresh on
// every invocation.
type RoutePlanResult struct {
	Ok                      bool
	Template                RouteTemplate
	Polyline                []Coordinates
	TotalDistanceKm         float64
	DriveDurationMin        *float64
	RoutingMode             RoutingMode
	ArrivalSocNoChargePct   float64
	CanReachWithoutCharging bool
	Legs                    []RoutePlanLeg
	SuggestedStopStationIDs []string
	Warnings                []string
}
