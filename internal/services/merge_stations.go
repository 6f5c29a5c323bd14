package services

import (
	"strings"

	"ev-route-service/internal/domain"
	"ev-route-service/internal/geo"
)

// StatusMatchRadiusKm is how close two records must be, in km, to be
// treated as the same physical station when merging feeds. Empirical.
const StatusMatchRadiusKm = 0.5

// MergeOptions holds the fuzzy-matching thresholds of the ingestion
// pipeline. Kept configurable so matching is tunable and testable
// independent of the planner.
type MergeOptions struct {
	MatchRadiusKm float64
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{MatchRadiusKm: StatusMatchRadiusKm}
}

// normalizeName collapses whitespace and case for fuzzy name comparison.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Names match when either is missing or one contains the other.
// Coordinate proximity carries most of the matching signal; the name
// check only prevents gluing distinct stations in dense areas.
func namesMatch(a, b string) bool {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return true
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func sameStation(a, b domain.Station, radiusKm float64) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	if a.Coord == nil || b.Coord == nil {
		return false
	}
	if geo.HaversineKm(*a.Coord, *b.Coord) > radiusKm {
		return false
	}
	return namesMatch(a.Name, b.Name)
}

// mergeRecord folds extra into base. Identity fields from the earlier
// (higher-priority) feed win; gaps are filled from the later feed. A
// non-unknown availability in the later feed always overlays the base,
// which is how live status sources update static directory records.
func mergeRecord(base, extra domain.Station) domain.Station {
	if base.Name == "" {
		base.Name = extra.Name
	}
	if base.Operator == "" {
		base.Operator = extra.Operator
	}
	if base.Coord == nil {
		base.Coord = extra.Coord
	}
	if len(base.Ports) == 0 {
		base.Ports = extra.Ports
	}
	if base.PowerText == "" {
		base.PowerText = extra.PowerText
	}
	if extra.Availability != "" && extra.Availability != domain.AvailabilityUnknown {
		base.Availability = extra.Availability
	}
	if base.Availability == "" {
		base.Availability = domain.AvailabilityUnknown
	}
	return base
}

// MergeStations folds several station feeds into one canonical set.
// Feeds are given in priority order: records from earlier feeds anchor
// identity, later feeds fill gaps and overlay availability. Records are
// matched by id, or by coordinate proximity plus name similarity.
func MergeStations(feeds [][]domain.Station, opts MergeOptions) []domain.Station {
	radius := opts.MatchRadiusKm
	if radius <= 0 {
		radius = StatusMatchRadiusKm
	}

	merged := make([]domain.Station, 0, 64)
	for _, feed := range feeds {
		for _, st := range feed {
			idx := -1
			for i := range merged {
				if sameStation(merged[i], st, radius) {
					idx = i
					break
				}
			}
			if idx >= 0 {
				merged[idx] = mergeRecord(merged[idx], st)
				continue
			}
			if st.Availability == "" {
				st.Availability = domain.AvailabilityUnknown
			}
			merged = append(merged, st)
		}
	}
	return merged
}
