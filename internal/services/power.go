package services

import (
	"regexp"
	"strconv"

	"ev-route-service/internal/domain"
)

const (
	// DefaultStationPowerKw is assumed when a station reports no usable
	// rating, so filtering never silently drops stations lacking data.
	// The same value feeds fast-only filtering and charge-time estimation.
	DefaultStationPowerKw = 50.0

	// FastChargeThresholdKw is the minimum parsed power for a station to
	// count as a fast charger.
	FastChargeThresholdKw = 50.0
)

var powerTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// StationPowerKw extracts a usable charging-power rating from a station
// record: the maximum per-port kW when any port reports one, else the
// first numeric token of the free-text rating (e.g. "150 kW" -> 150),
// else the conservative default.
func StationPowerKw(st domain.Station) float64 {
	best := 0.0
	for _, p := range st.Ports {
		if p.PowerKw > best {
			best = p.PowerKw
		}
	}
	if best > 0 {
		return best
	}

	if tok := powerTokenRe.FindString(st.PowerText); tok != "" {
		if v, err := strconv.ParseFloat(tok, 64); err == nil && v > 0 {
			return v
		}
	}

	return DefaultStationPowerKw
}
