package services

import (
	"fmt"
	"math"
	"sort"

	"ev-route-service/internal/domain"
	"ev-route-service/internal/geo"
)

// Empirical planner constants. They encode tuning inherited from field
// observations; changing them changes observable plan output.
const (
	// roadDistanceFactor compensates for straight polylines underestimating
	// real road distance.
	roadDistanceFactor = 1.12

	// minForwardProgressKm is the minimum along-route gain a charge stop
	// must provide, avoiding degenerate zero-distance legs.
	minForwardProgressKm = 5.0

	// Charging-curve taper factors by target SOC band: DC rates fall off
	// as the battery fills.
	taperTo80    = 0.75
	taperTo90    = 0.55
	taperAbove90 = 0.4

	// distEpsilonKm guards reachability comparisons against float rounding
	// at exact-boundary distances.
	distEpsilonKm = 1e-6
)

// Defaults substituted for non-finite numeric inputs before clamping.
const (
	defaultBatteryKwh    = 60.0
	defaultConsumption   = 18.0
	defaultCurrentSoc    = 80.0
	defaultArrivalSoc    = 10.0
	defaultChargeToSoc   = 80.0
	defaultMaxChargeRate = 150.0
	defaultCorridorKm    = 10.0
)

// sanitize replaces non-finite values with def and clamps to [lo, hi].
func sanitize(v, def, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = def
	}
	return math.Min(hi, math.Max(lo, v))
}

func clampInput(in domain.RoutePlanInput) domain.RoutePlanInput {
	in.BatteryKwh = sanitize(in.BatteryKwh, defaultBatteryKwh, 10, 200)
	in.ConsumptionKwhPer100 = sanitize(in.ConsumptionKwhPer100, defaultConsumption, 8, 40)
	in.CurrentSocPct = sanitize(in.CurrentSocPct, defaultCurrentSoc, 0, 100)
	in.ArrivalSocPct = sanitize(in.ArrivalSocPct, defaultArrivalSoc, 0, 30)
	in.ChargeToSocPct = sanitize(in.ChargeToSocPct, defaultChargeToSoc, 50, 100)
	in.CorridorKm = sanitize(in.CorridorKm, defaultCorridorKm, 2, 30)
	in.MaxChargeRateKw = sanitize(in.MaxChargeRateKw, defaultMaxChargeRate, 7, 400)
	if in.MaxStops < 0 {
		in.MaxStops = 0
	}
	if in.MaxStops > 8 {
		in.MaxStops = 8
	}
	return in
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// routeCandidate is a station projected onto the route corridor.
type routeCandidate struct {
	Station    domain.Station
	PowerKw    float64
	ProgressKm float64
	LateralKm  float64
}

// routeCandidates applies the eligibility filter and projects surviving
// stations onto the route, returning them sorted by along-route progress.
// Progress values are rescaled from raw-polyline to road-distance units.
func routeCandidates(
	stations []domain.Station,
	polyline []domain.Coordinates,
	roadFactor float64,
	totalKm float64,
	in domain.RoutePlanInput,
) []routeCandidate {
	out := make([]routeCandidate, 0, len(stations))
	for _, st := range stations {
		if st.Coord == nil {
			continue
		}
		if in.AvailableOnly && st.Availability != domain.AvailabilityAvailable {
			continue
		}

		power := StationPowerKw(st)
		if in.FastOnly && power < FastChargeThresholdKw {
			continue
		}

		proj := geo.ClosestPointOnPolyline(*st.Coord, polyline)
		if proj.LateralKm > in.CorridorKm {
			continue
		}

		progress := proj.ProgressKm * roadFactor
		if progress < 0 || progress > totalKm {
			continue
		}

		out = append(out, routeCandidate{
			Station:    st,
			PowerKw:    power,
			ProgressKm: progress,
			LateralKm:  proj.LateralKm,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ProgressKm < out[j].ProgressKm })
	return out
}

// Tie-break order: progress desc, then available stations, then power desc.
func betterCandidate(a, b routeCandidate) bool {
	if a.ProgressKm != b.ProgressKm {
		return a.ProgressKm > b.ProgressKm
	}
	aAvail := a.Station.Availability == domain.AvailabilityAvailable
	bAvail := b.Station.Availability == domain.AvailabilityAvailable
	if aAvail != bAvail {
		return aAvail
	}
	return a.PowerKw > b.PowerKw
}

func taperFactor(targetSocPct float64) float64 {
	switch {
	case targetSocPct <= 80:
		return taperTo80
	case targetSocPct <= 90:
		return taperTo90
	default:
		return taperAbove90
	}
}

// PlanChargeRoute computes a route-aware charging itinerary.
//
// It is a stateless pure function: it never errors, touches no shared
// state and is safe to call concurrently. Infeasibility and caveats are
// surfaced through the result's Ok flag and Warnings list. Stop selection
// is greedy furthest-reachable, which trades global optimality (total
// charge time, stop count) for determinism and bounded latency.
func PlanChargeRoute(
	stations []domain.Station,
	input domain.RoutePlanInput,
	templates []domain.RouteTemplate,
) domain.RoutePlanResult {
	in := clampInput(input)
	warnings := make([]string, 0, 4)

	tpl, known := resolveTemplate(templates, in.TemplateID)
	if !known {
		warnings = append(warnings, fmt.Sprintf("unknown route template %q: using %q", in.TemplateID, tpl.ID))
	}

	// Step 1: resolve route geometry. A valid live route supersedes the
	// template polyline; otherwise road distance is approximated from the
	// straight polyline.
	polyline := tpl.Polyline
	rawKm := geo.PolylineDistanceKm(polyline)
	totalKm := rawKm * roadDistanceFactor
	mode := domain.RoutingModeApprox
	var durationMin *float64

	if in.LiveRoute.Valid() {
		polyline = in.LiveRoute.Polyline
		rawKm = geo.PolylineDistanceKm(polyline)
		totalKm = in.LiveRoute.DistanceKm
		mode = domain.RoutingModeLive
		d := in.LiveRoute.DurationMin
		durationMin = &d
	}

	// Rescales raw-polyline progress into road-distance units.
	roadFactor := 1.0
	if rawKm > 0 {
		roadFactor = totalKm / rawKm
	}

	if mode == domain.RoutingModeLive {
		warnings = append(warnings, "distances computed from live road routing")
	} else {
		warnings = append(warnings, fmt.Sprintf("road distance approximated from straight polyline (x%.2f correction)", roadDistanceFactor))
	}
	if tpl.IsMountainous() {
		warnings = append(warnings, "mountain route: consumption rises on sustained climbs; estimates do not model elevation")
	}

	// Percentage of battery consumed per km driven.
	pctPerKm := in.ConsumptionKwhPer100 / in.BatteryKwh
	arrivalNoCharge := in.CurrentSocPct - totalKm*pctPerKm

	res := domain.RoutePlanResult{
		Template:                tpl,
		Polyline:                polyline,
		TotalDistanceKm:         round1(totalKm),
		DriveDurationMin:        durationMin,
		RoutingMode:             mode,
		ArrivalSocNoChargePct:   round1(arrivalNoCharge),
		Legs:                    []domain.RoutePlanLeg{},
		SuggestedStopStationIDs: []string{},
	}

	if in.CurrentSocPct < in.ArrivalSocPct {
		warnings = append(warnings, fmt.Sprintf(
			"starting charge %.0f%% is below the desired arrival floor %.0f%%", in.CurrentSocPct, in.ArrivalSocPct))
	}

	// Step 2: direct feasibility.
	if arrivalNoCharge >= in.ArrivalSocPct {
		res.CanReachWithoutCharging = true
		res.Ok = true
		res.Legs = append(res.Legs, domain.RoutePlanLeg{
			FromLabel:    tpl.Start.Label,
			ToLabel:      tpl.End.Label,
			DistanceKm:   round1(totalKm),
			DepartSocPct: round1(in.CurrentSocPct),
			ArriveSocPct: round1(arrivalNoCharge),
		})
		res.Warnings = warnings
		return res
	}

	// Step 3: candidate stations along the corridor.
	cands := routeCandidates(stations, polyline, roadFactor, totalKm, in)
	if len(cands) == 0 {
		warnings = append(warnings, "no eligible charging station within the route corridor")
		res.Warnings = warnings
		return res
	}

	// Step 4: greedy forward search, furthest reachable station first.
	progress := 0.0
	soc := in.CurrentSocPct
	stops := 0
	lastLabel := tpl.Start.Label
	reachedEnd := false

	for {
		maxLegKm := 0.0
		if soc > in.ArrivalSocPct {
			maxLegKm = (soc - in.ArrivalSocPct) / pctPerKm
		}

		if progress+maxLegKm >= totalKm-distEpsilonKm {
			remaining := totalKm - progress
			res.Legs = append(res.Legs, domain.RoutePlanLeg{
				FromLabel:    lastLabel,
				ToLabel:      tpl.End.Label,
				DistanceKm:   round1(remaining),
				DepartSocPct: round1(soc),
				ArriveSocPct: round1(soc - remaining*pctPerKm),
			})
			reachedEnd = true
			break
		}

		if stops >= in.MaxStops {
			warnings = append(warnings, fmt.Sprintf("trip needs more than %d charging stops", in.MaxStops))
			break
		}

		var best *routeCandidate
		for i := range cands {
			c := &cands[i]
			if c.ProgressKm <= progress+minForwardProgressKm {
				continue
			}
			if c.ProgressKm > progress+maxLegKm+distEpsilonKm {
				continue
			}
			if best == nil || betterCandidate(*c, *best) {
				best = c
			}
		}
		if best == nil {
			warnings = append(warnings, "no reachable charging station in the corridor from current position")
			break
		}

		legKm := best.ProgressKm - progress
		arriveSoc := soc - legKm*pctPerKm
		remainingKm := totalKm - best.ProgressKm

		// Charge just enough to finish the trip directly when that stays
		// under the preferred ceiling; otherwise charge to the ceiling.
		requiredDepartSoc := in.ArrivalSocPct + remainingKm*pctPerKm
		target := math.Min(requiredDepartSoc, in.ChargeToSocPct)
		if target < arriveSoc {
			target = arriveSoc
		}
		if target > 100 {
			target = 100
		}

		note := ""
		switch {
		case requiredDepartSoc > 100:
			warnings = append(warnings, fmt.Sprintf(
				"even a full charge at %s cannot finish the trip directly; at least one more stop is needed", best.Station.Name))
			note = "full charge still short of destination"
		case requiredDepartSoc > in.ChargeToSocPct+1:
			warnings = append(warnings, fmt.Sprintf(
				"charge ceiling %.0f%% at %s is below the %.0f%% needed to finish directly; an additional stop may be needed",
				in.ChargeToSocPct, best.Station.Name, requiredDepartSoc))
			note = "charged to ceiling; below direct-finish requirement"
		}

		addedKwh := (target - arriveSoc) / 100 * in.BatteryKwh
		rate := math.Min(best.PowerKw, in.MaxChargeRateKw)
		avgKw := math.Max(1, rate*taperFactor(target))
		minutes := int(math.Round(addedKwh / avgKw * 60))

		res.Legs = append(res.Legs, domain.RoutePlanLeg{
			FromLabel:    lastLabel,
			ToLabel:      best.Station.Name,
			DistanceKm:   round1(legKm),
			DepartSocPct: round1(soc),
			ArriveSocPct: round1(arriveSoc),
			ChargeStop: &domain.ChargeStop{
				StationID:      best.Station.ID,
				StationName:    best.Station.Name,
				StationPowerKw: best.PowerKw,
				TargetSocPct:   round1(target),
				AddedKwh:       round1(addedKwh),
				EstMinutes:     minutes,
				Note:           note,
			},
		})
		res.SuggestedStopStationIDs = append(res.SuggestedStopStationIDs, best.Station.ID)

		progress = best.ProgressKm
		soc = target
		stops++
		lastLabel = best.Station.Name
	}

	res.Ok = reachedEnd
	res.Warnings = warnings
	return res
}
