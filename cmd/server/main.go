package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ev-route-service/internal/adapters/cache"
	"ev-route-service/internal/adapters/repositories"
	"ev-route-service/internal/adapters/routing"
	"ev-route-service/internal/adapters/stations"
	"ev-route-service/internal/api"
	"ev-route-service/internal/config"
	"ev-route-service/internal/platform/db"
	"ev-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Overpass, OCM, ORS)
// behind ports and starts the HTTP server.
func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	port := config.Get("PORT", "8080")

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := repositories.InitSchema(context.Background(), pool); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}

	// Redis caching is optional; without it the kv_cache table serves
	// the same port.
	var kv ports.KVStore = cache.NewSQLKVStore(pool)
	if redisURL := os.Getenv("REDIS_URL"); strings.TrimSpace(redisURL) != "" {
		client, err := cache.OpenRedis(redisURL)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer client.Close()
		kv = cache.NewRedisKVStore(client)
	}

	repo := repositories.NewPostgresStationRepository(pool)

	stationTTL := envDuration(log, "STATION_CACHE_TTL", 10*time.Minute)
	sources := []stations.Source{
		stations.NewOverpassSource(config.Get("OVERPASS_URL", "https://overpass-api.de")),
		stations.NewOpenChargeMapSource(
			config.Get("OCM_URL", "https://api.openchargemap.io/v3"),
			os.Getenv("OCM_API_KEY"),
		),
	}
	stationProvider := stations.NewMergedStationProvider(sources, kv, stationTTL, repo, log)

	// Live routing is optional; without a key the planner uses its
	// straight-polyline approximation.
	var routeProvider ports.RouteProvider
	if orsKey := os.Getenv("ORS_API_KEY"); strings.TrimSpace(orsKey) != "" {
		routeTTL := envDuration(log, "ROUTE_CACHE_TTL", 24*time.Hour)
		routeProvider = routing.NewORSRouteProvider(
			config.Get("ORS_URL", "https://api.openrouteservice.org"),
			orsKey, kv, routeTTL, log,
		)
	} else {
		log.Info("ORS_API_KEY not set, live routing disabled")
	}

	router := api.NewRouter(stationProvider, routeProvider, log)

	// Timeouts are tuned for cold-cache planning (external API latency).
	log.Info("server listening", zap.String("addr", ":"+port))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

func envDuration(log *zap.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn("invalid duration, using default",
			zap.String("key", key),
			zap.String("value", raw),
			zap.Duration("default", fallback),
		)
		return fallback
	}
	return d
}
