package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
)

type StationHandler struct {
	Provider ports.StationProvider
	Log      *zap.Logger
}

// List returns the merged station set with the effective per-station
// power rating already resolved.
func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Provider.ListStations(r.Context())
	if err != nil {
		h.Log.Error("list stations failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStationResponse{Stations: make([]dto.StationResponse, 0, len(stations))}
	for _, st := range stations {
		res.Stations = append(res.Stations, toStationResponse(st))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toStationResponse(st domain.Station) dto.StationResponse {
	out := dto.StationResponse{
		ID:           st.ID,
		Name:         st.Name,
		Operator:     st.Operator,
		PowerKw:      services.StationPowerKw(st),
		PowerText:    st.PowerText,
		Availability: string(st.Availability),
	}
	if st.Coord != nil {
		out.Coord = &dto.CoordinateResponse{Lon: st.Coord.Lon, Lat: st.Coord.Lat}
	}
	for _, p := range st.Ports {
		out.Ports = append(out.Ports, dto.StationPortResponse{
			PowerKw:      p.PowerKw,
			Availability: string(p.Availability),
		})
	}
	return out
}
