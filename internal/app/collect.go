package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"food_explorer/internal/domain"
)

// CollectByArea lists restaurants area by area with at most workers requests
// in flight and merges the results in area order, dropping repeated slugs.
// An area that fails is logged and skipped; the error count is returned.
func CollectByArea(ctx context.Context, src domain.RestaurantSource, areas []string, workers int) ([]domain.Restaurant, int, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([][]domain.Restaurant, len(areas))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)

	for i, area := range areas {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, failed, err
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, failed, err
		}
		wg.Add(1)
		go func(i int, area string) {
			defer wg.Done()
			defer sem.Release(1)

			rs, err := src.ListRestaurants(ctx, domain.Filter{Area: area})
			if err != nil {
				log.Warn().Str("area", area).Err(err).Msg("collect failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Info().Str("area", area).Int("count", len(rs)).Msg("collect ok")
			results[i] = rs
		}(i, area)
	}
	wg.Wait()

	seen := map[string]struct{}{}
	var out []domain.Restaurant
	for _, rs := range results {
		for _, r := range rs {
			if _, dup := seen[r.Slug]; dup {
				continue
			}
			seen[r.Slug] = struct{}{}
			out = append(out, r)
		}
	}
	return out, failed, nil
}
