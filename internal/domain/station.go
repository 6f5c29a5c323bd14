package domain

// Availability of a charging station (or one of its ports) as reported
// by the upstream status feeds.
type Availability string

const (
	AvailabilityAvailable    Availability = "available"
	AvailabilityOccupied     Availability = "occupied"
	AvailabilityOutOfService Availability = "out_of_service"
	AvailabilityUnknown      Availability = "unknown"
)

// A single charging port on a station. PowerKw is zero when the source
// feed did not report a numeric rating.
type StationPort struct {
	PowerKw      float64
	Availability Availability
}

// Station is a canonical charging station record, already merged across
// source feeds. It is consumed read-only by the planner.
//
// Coord is nil when no source supplied usable coordinates; such stations
// are never eligible as route stops. PowerText is a free-text rating
// (e.g. "150 kW") used as a fallback when no port carries a numeric kW.
type Station struct {
	ID           string
	Name         string
	Operator     string
	Ports        []StationPort
	PowerText    string
	Availability Availability
	Coord        *Coordinates
}
