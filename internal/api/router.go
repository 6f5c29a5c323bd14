package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ev-route-service/internal/api/handlers"
	"ev-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(
	stations ports.StationProvider,
	routes ports.RouteProvider,
	log *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	stationHandler := &handlers.StationHandler{Provider: stations, Log: log}
	planHandler := &handlers.PlanHandler{
		Stations: stations,
		Routes:   routes,
		Log:      log,
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/templates", handlers.Templates).Methods(http.MethodGet)
	r.HandleFunc("/stations", stationHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/plans", planHandler.Plan).Methods(http.MethodPost)

	r.Use(requestIDMiddleware)
	r.Use(mux.MiddlewareFunc(loggingMiddleware(log)))

	return r
}
