package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
)

// Source is one upstream station feed. Feeds are listed in priority
// order: earlier feeds win identity conflicts in the merge.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Station, error)
}

const (
	snapshotCacheKey = "stations:merged"
	maxParallelFetch = 4
)

// MergedStationProvider implements ports.StationProvider by fetching
// all source feeds concurrently, merging them into one canonical set,
// and caching the merged snapshot. When every feed fails, the last
// persisted set from the repository is served instead.
type MergedStationProvider struct {
	sources  []Source
	cache    ports.KVStore
	cacheTTL time.Duration
	repo     ports.StationRepository
	opts     services.MergeOptions
	log      *zap.Logger
}

func NewMergedStationProvider(
	sources []Source,
	cache ports.KVStore,
	cacheTTL time.Duration,
	repo ports.StationRepository,
	log *zap.Logger,
) *MergedStationProvider {
	return &MergedStationProvider{
		sources:  sources,
		cache:    cache,
		cacheTTL: cacheTTL,
		repo:     repo,
		opts:     services.DefaultMergeOptions(),
		log:      log,
	}
}

func (p *MergedStationProvider) ListStations(ctx context.Context) (stations []domain.Station, err error) {
	defer obs.Time(ctx, p.log, "stations.ListStations")(&err)

	if p.cache != nil {
		if cached, ok, cerr := p.cache.Get(ctx, snapshotCacheKey); cerr == nil && ok {
			var snap []domain.Station
			if jerr := json.Unmarshal([]byte(cached), &snap); jerr == nil {
				return snap, nil
			}
		}
	}

	feeds := p.fetchAll(ctx)

	anyFeed := false
	for _, feed := range feeds {
		if feed != nil {
			anyFeed = true
			break
		}
	}
	if !anyFeed {
		return p.fallbackToRepo(ctx)
	}

	nonNil := make([][]domain.Station, 0, len(feeds))
	for _, feed := range feeds {
		if feed != nil {
			nonNil = append(nonNil, feed)
		}
	}
	merged := services.MergeStations(nonNil, p.opts)

	p.persist(ctx, merged)

	return merged, nil
}

// fetchAll queries every source concurrently with bounded parallelism.
// The result slice preserves source order so merge priority is stable;
// a failed source leaves a nil entry.
func (p *MergedStationProvider) fetchAll(ctx context.Context) [][]domain.Station {
	feeds := make([][]domain.Station, len(p.sources))

	sem := make(chan struct{}, maxParallelFetch)
	var wg sync.WaitGroup

	for i, src := range p.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			stations, err := src.Fetch(ctx)
			if err != nil {
				p.log.Warn("station source failed, skipping feed",
					zap.String("source", src.Name()),
					zap.Error(err),
				)
				return
			}
			feeds[i] = stations
		}(i, src)
	}

	wg.Wait()
	return feeds
}

func (p *MergedStationProvider) fallbackToRepo(ctx context.Context) ([]domain.Station, error) {
	if p.repo == nil {
		return nil, fmt.Errorf("list stations: all source feeds failed")
	}

	stations, err := p.repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: all source feeds failed, repository fallback: %w", err)
	}

	p.log.Warn("all station feeds failed, serving persisted snapshot",
		zap.Int("stations", len(stations)),
	)
	return stations, nil
}

// persist writes the merged set to the snapshot cache and repository.
// Both writes are best-effort: a failure degrades freshness, not the
// current response.
func (p *MergedStationProvider) persist(ctx context.Context, merged []domain.Station) {
	if p.cache != nil {
		if b, err := json.Marshal(merged); err == nil {
			if err := p.cache.Set(ctx, snapshotCacheKey, string(b), p.cacheTTL); err != nil {
				p.log.Warn("station snapshot cache write failed", zap.Error(err))
			}
		}
	}

	if p.repo != nil {
		if err := p.repo.UpsertStations(ctx, merged); err != nil {
			p.log.Warn("station snapshot persist failed", zap.Error(err))
		}
	}
}
