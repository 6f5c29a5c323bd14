package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"ev-route-service/internal/domain"
)

// InitSchema creates the tables the service needs. Statements are
// idempotent so the dbtool can run against an existing database.
func InitSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS stations (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL DEFAULT '',
			operator     TEXT NOT NULL DEFAULT '',
			power_text   TEXT NOT NULL DEFAULT '',
			availability TEXT NOT NULL DEFAULT 'unknown',
			lon          DOUBLE PRECISION,
			lat          DOUBLE PRECISION,
			ports        JSONB NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS kv_cache (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at TIMESTAMPTZ
		);
	`

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: create tables: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}

type seedPort struct {
	PowerKw      float64 `json:"power_kw"`
	Availability string  `json:"availability"`
}

type seedStation struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Operator     string     `json:"operator"`
	PowerText    string     `json:"power_text"`
	Availability string     `json:"availability"`
	Lon          *float64   `json:"lon"`
	Lat          *float64   `json:"lat"`
	Ports        []seedPort `json:"ports"`
}

// SeedFromJSON loads station records from a JSON file and upserts them.
// Records without an id are rejected; records without coordinates are
// kept (they are simply never eligible as route stops).
func SeedFromJSON(ctx context.Context, db *sql.DB, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed stations: read %s: %w", path, err)
	}

	var seeds []seedStation
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return 0, fmt.Errorf("seed stations: parse %s: %w", path, err)
	}

	stations := make([]domain.Station, 0, len(seeds))
	for i, s := range seeds {
		if s.ID == "" {
			return 0, fmt.Errorf("seed stations: record %d has no id", i)
		}

		st := domain.Station{
			ID:           s.ID,
			Name:         s.Name,
			Operator:     s.Operator,
			PowerText:    s.PowerText,
			Availability: seedAvailability(s.Availability),
		}
		if s.Lon != nil && s.Lat != nil {
			st.Coord = &domain.Coordinates{Lon: *s.Lon, Lat: *s.Lat}
		}
		for _, p := range s.Ports {
			st.Ports = append(st.Ports, domain.StationPort{
				PowerKw:      p.PowerKw,
				Availability: seedAvailability(p.Availability),
			})
		}
		stations = append(stations, st)
	}

	repo := NewPostgresStationRepository(db)
	if err := repo.UpsertStations(ctx, stations); err != nil {
		return 0, fmt.Errorf("seed stations: %w", err)
	}
	return len(stations), nil
}

func seedAvailability(s string) domain.Availability {
	switch domain.Availability(s) {
	case domain.AvailabilityAvailable, domain.AvailabilityOccupied, domain.AvailabilityOutOfService:
		return domain.Availability(s)
	default:
		return domain.AvailabilityUnknown
	}
}
