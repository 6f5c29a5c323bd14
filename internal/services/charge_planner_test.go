package services

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"ev-route-service/internal/domain"
)

const oneDegreeLatKm = 6371.0 * math.Pi / 180

// Test routes run due north along a meridian: on a meridian the haversine
// and planar-projection distances agree exactly, so station progress
// fractions translate into exact road-distance values.
func testTemplate(lengthKm float64) domain.RouteTemplate {
	dLat := lengthKm / oneDegreeLatKm
	start := domain.RoutePlace{ID: "alpha", Label: "Alpha", Coord: domain.Coordinates{Lon: 33.0, Lat: 34.0}}
	end := domain.RoutePlace{ID: "omega", Label: "Omega", Coord: domain.Coordinates{Lon: 33.0, Lat: 34.0 + dLat}}
	return domain.RouteTemplate{
		ID:       "test-route",
		Label:    "Alpha → Omega",
		Start:    start,
		End:      end,
		Polyline: []domain.Coordinates{start.Coord, end.Coord},
	}
}

// liveRoute pins the road distance to exactly totalKm over the template
// polyline, so progress fractions map to exact km values.
func liveRoute(tpl domain.RouteTemplate, totalKm float64) *domain.LiveRoute {
	return &domain.LiveRoute{
		Polyline:    tpl.Polyline,
		DistanceKm:  totalKm,
		DurationMin: totalKm, // 60 km/h placeholder
	}
}

// stationAt places a station at the given fraction of the route with the
// given lateral offset east of the meridian, in km.
func stationAt(id string, tpl domain.RouteTemplate, frac, lateralKm float64, power float64, avail domain.Availability) domain.Station {
	lat := tpl.Start.Coord.Lat + frac*(tpl.End.Coord.Lat-tpl.Start.Coord.Lat)
	lon := tpl.Start.Coord.Lon + lateralKm/(oneDegreeLatKm*math.Cos(lat*math.Pi/180))
	return domain.Station{
		ID:           id,
		Name:         id,
		Ports:        []domain.StationPort{{PowerKw: power, Availability: avail}},
		Availability: avail,
		Coord:        &domain.Coordinates{Lon: lon, Lat: lat},
	}
}

func baseInput(tpl domain.RouteTemplate, totalKm float64) domain.RoutePlanInput {
	return domain.RoutePlanInput{
		TemplateID:           tpl.ID,
		CurrentSocPct:        55,
		BatteryKwh:           60,
		ConsumptionKwhPer100: 18,
		ArrivalSocPct:        10,
		ChargeToSocPct:       80,
		MaxChargeRateKw:      150,
		CorridorKm:           10,
		MaxStops:             3,
		LiveRoute:            liveRoute(tpl, totalKm),
	}
}

func TestPlanDirectFeasibility(t *testing.T) {
	// 70 km, 60 kWh, 18 kWh/100km, 55% -> needs ~21%, arrives at ~34%.
	tpl := testTemplate(70)
	in := baseInput(tpl, 70)

	res := PlanChargeRoute(nil, in, []domain.RouteTemplate{tpl})

	if !res.CanReachWithoutCharging {
		t.Fatalf("expected direct reachability, got %+v", res)
	}
	if !res.Ok {
		t.Errorf("Ok = false, want true")
	}
	if len(res.Legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(res.Legs))
	}

	leg := res.Legs[0]
	if leg.ChargeStop != nil {
		t.Errorf("direct trip must not have a charge stop")
	}
	if leg.FromLabel != "Alpha" || leg.ToLabel != "Omega" {
		t.Errorf("leg labels = %q -> %q, want Alpha -> Omega", leg.FromLabel, leg.ToLabel)
	}
	if math.Abs(leg.ArriveSocPct-34) > 0.05 {
		t.Errorf("arrival SOC = %v, want 34 (+-0.05)", leg.ArriveSocPct)
	}
	if math.Abs(res.ArrivalSocNoChargePct-34) > 0.05 {
		t.Errorf("ArrivalSocNoChargePct = %v, want 34", res.ArrivalSocNoChargePct)
	}
	if res.RoutingMode != domain.RoutingModeLive {
		t.Errorf("routing mode = %q, want live", res.RoutingMode)
	}
}

func TestPlanSingleStop(t *testing.T) {
	// 300 km trip: reachable radius at 55% is 150 km, so one stop at the
	// 120 km station; charging to 64% finishes the trip at the 10% floor.
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)
	st := stationAt("st-1", tpl, 0.4, 0, 150, domain.AvailabilityAvailable)

	res := PlanChargeRoute([]domain.Station{st}, in, []domain.RouteTemplate{tpl})

	if res.CanReachWithoutCharging {
		t.Fatalf("expected charging to be required")
	}
	if !res.Ok {
		t.Fatalf("Ok = false, warnings = %v", res.Warnings)
	}
	if got := res.SuggestedStopStationIDs; len(got) != 1 || got[0] != "st-1" {
		t.Fatalf("suggested stops = %v, want [st-1]", got)
	}
	if len(res.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(res.Legs))
	}

	stop := res.Legs[0].ChargeStop
	if stop == nil {
		t.Fatal("first leg missing charge stop")
	}
	if stop.TargetSocPct > 80 {
		t.Errorf("target SOC = %v, want <= charge ceiling 80", stop.TargetSocPct)
	}
	if math.Abs(stop.TargetSocPct-64) > 0.1 {
		t.Errorf("target SOC = %v, want 64 (just enough to finish)", stop.TargetSocPct)
	}
	if math.Abs(stop.AddedKwh-27) > 0.1 {
		t.Errorf("added energy = %v kWh, want 27", stop.AddedKwh)
	}
	// 27 kWh at min(150,150)*0.75 = 112.5 kW -> 14.4 min.
	if stop.EstMinutes != 14 {
		t.Errorf("charge minutes = %d, want 14", stop.EstMinutes)
	}

	final := res.Legs[1]
	if final.ToLabel != "Omega" || final.ChargeStop != nil {
		t.Errorf("final leg = %+v, want plain leg to Omega", final)
	}
	if math.Abs(final.ArriveSocPct-10) > 0.1 {
		t.Errorf("final arrival SOC = %v, want 10", final.ArriveSocPct)
	}
}

func TestPlanNoCandidates(t *testing.T) {
	// Same trip but the only station sits 50 km off-route.
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)
	st := stationAt("st-far", tpl, 0.4, 50, 150, domain.AvailabilityAvailable)

	res := PlanChargeRoute([]domain.Station{st}, in, []domain.RouteTemplate{tpl})

	if res.Ok {
		t.Fatalf("Ok = true, want false")
	}
	if len(res.Legs) != 0 {
		t.Errorf("legs = %d, want 0", len(res.Legs))
	}
	if len(res.SuggestedStopStationIDs) != 0 {
		t.Errorf("suggested stops = %v, want empty", res.SuggestedStopStationIDs)
	}
	if len(res.Warnings) == 0 {
		t.Errorf("expected a warning about missing corridor stations")
	}
}

func TestPlanCorridorFilter(t *testing.T) {
	// A powerful available station beyond the corridor is never selected
	// over an in-corridor one.
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)
	in.CorridorKm = 5

	inCorridor := stationAt("near", tpl, 0.4, 2, 50, domain.AvailabilityAvailable)
	offCorridor := stationAt("far", tpl, 0.45, 12, 350, domain.AvailabilityAvailable)

	res := PlanChargeRoute([]domain.Station{offCorridor, inCorridor}, in, []domain.RouteTemplate{tpl})

	for _, id := range res.SuggestedStopStationIDs {
		if id == "far" {
			t.Fatalf("off-corridor station selected: %v", res.SuggestedStopStationIDs)
		}
	}
	if !res.Ok {
		t.Fatalf("Ok = false, warnings = %v", res.Warnings)
	}
}

func TestPlanFastOnlyFilter(t *testing.T) {
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)
	in.FastOnly = true

	slow := stationAt("slow", tpl, 0.45, 0, 22, domain.AvailabilityAvailable)
	fast := stationAt("fast", tpl, 0.4, 0, 150, domain.AvailabilityAvailable)

	res := PlanChargeRoute([]domain.Station{slow, fast}, in, []domain.RouteTemplate{tpl})

	if !res.Ok {
		t.Fatalf("Ok = false, warnings = %v", res.Warnings)
	}
	for _, leg := range res.Legs {
		if leg.ChargeStop != nil && leg.ChargeStop.StationPowerKw < FastChargeThresholdKw {
			t.Errorf("fast-only plan selected %v kW station", leg.ChargeStop.StationPowerKw)
		}
	}
	if res.SuggestedStopStationIDs[0] != "fast" {
		t.Errorf("selected %v, want fast", res.SuggestedStopStationIDs)
	}
}

func TestPlanStopBudget(t *testing.T) {
	// 600 km with a single reachable first stop and maxStops=1: the plan
	// must stop at the budget with a warning, not error.
	tpl := testTemplate(600)
	in := baseInput(tpl, 600)
	in.MaxStops = 1

	stations := []domain.Station{
		stationAt("st-120", tpl, 0.2, 0, 150, domain.AvailabilityAvailable),
	}

	res := PlanChargeRoute(stations, in, []domain.RouteTemplate{tpl})

	if res.Ok {
		t.Fatalf("Ok = true, want false")
	}
	if len(res.SuggestedStopStationIDs) > 1 {
		t.Errorf("stops = %v, exceeds budget 1", res.SuggestedStopStationIDs)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "more than 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing stop-budget warning, got %v", res.Warnings)
	}
}

func TestPlanGreedyMaximalReach(t *testing.T) {
	// Reachable radius is 150 km: of the stations at 60/100/140 km the
	// planner must take the furthest reachable one.
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)

	stations := []domain.Station{
		stationAt("st-60", tpl, 0.2, 0, 150, domain.AvailabilityAvailable),
		stationAt("st-100", tpl, 1.0/3.0, 0, 150, domain.AvailabilityAvailable),
		stationAt("st-140", tpl, 140.0/300.0, 0, 150, domain.AvailabilityAvailable),
	}

	res := PlanChargeRoute(stations, in, []domain.RouteTemplate{tpl})

	if !res.Ok {
		t.Fatalf("Ok = false, warnings = %v", res.Warnings)
	}
	if res.SuggestedStopStationIDs[0] != "st-140" {
		t.Errorf("first stop = %v, want st-140", res.SuggestedStopStationIDs)
	}
}

func TestPlanTieBreakOrder(t *testing.T) {
	// Same progress: available beats occupied, then higher power wins.
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)

	occupiedBig := stationAt("occupied-350", tpl, 0.4, 0, 350, domain.AvailabilityOccupied)
	availSmall := stationAt("avail-50", tpl, 0.4, 0, 50, domain.AvailabilityAvailable)
	availBig := stationAt("avail-150", tpl, 0.4, 0, 150, domain.AvailabilityAvailable)

	res := PlanChargeRoute([]domain.Station{occupiedBig, availSmall, availBig}, in, []domain.RouteTemplate{tpl})

	if !res.Ok {
		t.Fatalf("Ok = false, warnings = %v", res.Warnings)
	}
	if res.SuggestedStopStationIDs[0] != "avail-150" {
		t.Errorf("selected %v, want avail-150", res.SuggestedStopStationIDs)
	}
}

func TestPlanEnergyAccounting(t *testing.T) {
	// Across every leg: arrive = depart - distance * pctPerKm, and each
	// post-stop leg departs at the prior stop's target SOC.
	tpl := testTemplate(500)
	in := baseInput(tpl, 500)
	in.MaxStops = 5

	stations := []domain.Station{
		stationAt("a", tpl, 0.25, 0, 150, domain.AvailabilityAvailable),
		stationAt("b", tpl, 0.5, 0, 150, domain.AvailabilityAvailable),
		stationAt("c", tpl, 0.75, 0, 150, domain.AvailabilityAvailable),
	}

	res := PlanChargeRoute(stations, in, []domain.RouteTemplate{tpl})
	if !res.Ok {
		t.Fatalf("Ok = false, warnings = %v", res.Warnings)
	}
	if len(res.Legs) < 3 {
		t.Fatalf("expected a multi-leg plan, got %d legs", len(res.Legs))
	}

	pctPerKm := in.ConsumptionKwhPer100 / in.BatteryKwh
	for i, leg := range res.Legs {
		want := leg.DepartSocPct - leg.DistanceKm*pctPerKm
		if math.Abs(leg.ArriveSocPct-want) > 0.1 {
			t.Errorf("leg %d: arrive = %v, want %v", i, leg.ArriveSocPct, want)
		}
		if i > 0 {
			prev := res.Legs[i-1].ChargeStop
			if prev == nil {
				t.Fatalf("leg %d: previous leg has no charge stop", i)
			}
			if leg.DepartSocPct != prev.TargetSocPct {
				t.Errorf("leg %d departs at %v, prior target %v", i, leg.DepartSocPct, prev.TargetSocPct)
			}
		}
	}
}

func TestPlanIdempotent(t *testing.T) {
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)
	stations := []domain.Station{
		stationAt("st-1", tpl, 0.4, 0, 150, domain.AvailabilityAvailable),
	}

	a := PlanChargeRoute(stations, in, []domain.RouteTemplate{tpl})
	b := PlanChargeRoute(stations, in, []domain.RouteTemplate{tpl})

	if !reflect.DeepEqual(a, b) {
		t.Errorf("planner is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestPlanApproxRouting(t *testing.T) {
	// Without a live route the road distance is the straight polyline
	// length scaled by the 1.12 correction factor.
	tpl := testTemplate(100)
	in := baseInput(tpl, 0)
	in.LiveRoute = nil
	in.CurrentSocPct = 80

	res := PlanChargeRoute(nil, in, []domain.RouteTemplate{tpl})

	if res.RoutingMode != domain.RoutingModeApprox {
		t.Fatalf("routing mode = %q, want approx", res.RoutingMode)
	}
	if math.Abs(res.TotalDistanceKm-112) > 0.2 {
		t.Errorf("total distance = %v, want ~112 (100 x 1.12)", res.TotalDistanceKm)
	}
	if res.DriveDurationMin != nil {
		t.Errorf("approx mode must not carry a drive duration")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "approximated") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing approximate-routing warning, got %v", res.Warnings)
	}
}

func TestPlanMountainWarning(t *testing.T) {
	in := domain.RoutePlanInput{
		TemplateID:           "nicosia-troodos",
		CurrentSocPct:        90,
		BatteryKwh:           60,
		ConsumptionKwhPer100: 18,
		ArrivalSocPct:        10,
		ChargeToSocPct:       80,
		MaxChargeRateKw:      150,
		CorridorKm:           10,
		MaxStops:             3,
	}

	res := PlanChargeRoute(nil, in, nil)

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "mountain") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing mountain-route warning, got %v", res.Warnings)
	}
}

func TestPlanLowStartSoc(t *testing.T) {
	// Start below the arrival floor: warn but still search, never error.
	tpl := testTemplate(300)
	in := baseInput(tpl, 300)
	in.CurrentSocPct = 5

	res := PlanChargeRoute(nil, in, []domain.RouteTemplate{tpl})

	if res.Ok {
		t.Fatalf("Ok = true, want false")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "below the desired arrival floor") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing low-SOC warning, got %v", res.Warnings)
	}
}

func TestPlanNonFiniteInputs(t *testing.T) {
	tpl := testTemplate(70)
	in := baseInput(tpl, 70)
	in.BatteryKwh = math.NaN()
	in.ConsumptionKwhPer100 = math.Inf(1)
	in.CorridorKm = math.Inf(-1)

	res := PlanChargeRoute(nil, in, []domain.RouteTemplate{tpl})

	// Non-finite values fall back to the documented defaults (60 kWh,
	// 18 kWh/100km), so the 70 km trip stays directly reachable.
	if !res.CanReachWithoutCharging {
		t.Errorf("expected direct reachability after defaulting, got %+v", res)
	}
	if math.Abs(res.ArrivalSocNoChargePct-34) > 0.1 {
		t.Errorf("arrival SOC = %v, want ~34", res.ArrivalSocNoChargePct)
	}
}

func TestPlanUnknownTemplate(t *testing.T) {
	in := domain.RoutePlanInput{
		TemplateID:           "no-such-route",
		CurrentSocPct:        90,
		BatteryKwh:           60,
		ConsumptionKwhPer100: 18,
		ArrivalSocPct:        10,
		ChargeToSocPct:       80,
		MaxChargeRateKw:      150,
		CorridorKm:           10,
		MaxStops:             3,
	}

	res := PlanChargeRoute(nil, in, nil)

	if res.Template.ID == "no-such-route" {
		t.Fatalf("unknown template must fall back to a preset")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "unknown route template") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing unknown-template warning, got %v", res.Warnings)
	}
}
