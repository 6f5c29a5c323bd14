package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ev-route-service/internal/domain"
)

// PostgresStationRepository persists the canonical merged station set.
// It backs the provider's fallback path when every live feed is down.
type PostgresStationRepository struct {
	db *sql.DB
}

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{db: db}
}

func (r *PostgresStationRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	const q = `
		SELECT id, name, operator, power_text, availability, lon, lat, ports
		FROM stations
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var out []domain.Station
	for rows.Next() {
		var (
			st           domain.Station
			availability string
			lon, lat     sql.NullFloat64
			portsJSON    []byte
		)
		if err := rows.Scan(
			&st.ID, &st.Name, &st.Operator, &st.PowerText,
			&availability, &lon, &lat, &portsJSON,
		); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}

		st.Availability = domain.Availability(availability)
		if lon.Valid && lat.Valid {
			st.Coord = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		if len(portsJSON) > 0 {
			if err := json.Unmarshal(portsJSON, &st.Ports); err != nil {
				return nil, fmt.Errorf("list stations: decode ports for %s: %w", st.ID, err)
			}
		}

		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: iterate rows: %w", err)
	}
	return out, nil
}

func (r *PostgresStationRepository) UpsertStations(ctx context.Context, stations []domain.Station) error {
	if len(stations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert stations: begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO stations (id, name, operator, power_text, availability, lon, lat, ports)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			operator = EXCLUDED.operator,
			power_text = EXCLUDED.power_text,
			availability = EXCLUDED.availability,
			lon = EXCLUDED.lon,
			lat = EXCLUDED.lat,
			ports = EXCLUDED.ports
	`

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("upsert stations: prepare: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		portsJSON, err := json.Marshal(st.Ports)
		if err != nil {
			return fmt.Errorf("upsert stations: encode ports for %s: %w", st.ID, err)
		}

		var lon, lat interface{}
		if st.Coord != nil {
			lon, lat = st.Coord.Lon, st.Coord.Lat
		}

		if _, err := stmt.ExecContext(ctx,
			st.ID, st.Name, st.Operator, st.PowerText,
			string(st.Availability), lon, lat, portsJSON,
		); err != nil {
			return fmt.Errorf("upsert stations: exec for %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert stations: commit: %w", err)
	}
	return nil
}
