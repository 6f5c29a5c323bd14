package handlers

import (
	"net/http"

	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/services"
)

// Templates lists the built-in route presets.
func Templates(w http.ResponseWriter, r *http.Request) {
	templates := services.DefaultTemplates()

	res := dto.ListTemplateResponse{Templates: make([]dto.TemplateResponse, 0, len(templates))}
	for _, t := range templates {
		polyline := make([]dto.CoordinateResponse, 0, len(t.Polyline))
		for _, c := range t.Polyline {
			polyline = append(polyline, dto.CoordinateResponse{Lon: c.Lon, Lat: c.Lat})
		}
		res.Templates = append(res.Templates, dto.TemplateResponse{
			ID:         t.ID,
			Label:      t.Label,
			StartLabel: t.Start.Label,
			EndLabel:   t.End.Label,
			Polyline:   polyline,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
