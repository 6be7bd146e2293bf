package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"food_explorer/internal/domain"
)

const cachePrefix = "restaurants:"

// QueryService answers read paths from a RestaurantSource with an optional cache in front.
type QueryService struct {
	src      domain.RestaurantSource
	awards   domain.AwardSource
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(src domain.RestaurantSource, awards domain.AwardSource, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{src: src, awards: awards, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListRestaurants(ctx context.Context, f domain.Filter) ([]domain.Restaurant, error) {
	key := cachePrefix + "list:" + f.Key()
	var out []domain.Restaurant
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, key, &out); err == nil && ok {
			return out, nil
		} else if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
	}
	rs, err := s.src.ListRestaurants(ctx, f)
	if err != nil {
		return nil, err
	}
	// copy so a cached value never aliases the source's backing array
	out = make([]domain.Restaurant, len(rs))
	copy(out, rs)

	if s.cache != nil {
		if b, _ := json.Marshal(out); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
		}
	}
	return out, nil
}

// BestPlaces returns the n highest rated restaurants matching f.
func (s *QueryService) BestPlaces(ctx context.Context, f domain.Filter, n int) ([]domain.Restaurant, error) {
	rs, err := s.ListRestaurants(ctx, f)
	if err != nil {
		return nil, err
	}
	return domain.TopByRating(rs, n), nil
}

func (s *QueryService) GetBySlug(ctx context.Context, slug string) (domain.Restaurant, error) {
	rs, err := s.ListRestaurants(ctx, domain.Filter{})
	if err != nil {
		return domain.Restaurant{}, err
	}
	for _, r := range rs {
		if r.Slug == slug {
			return r, nil
		}
	}
	return domain.Restaurant{}, fmt.Errorf("restaurant %q: %w", slug, domain.ErrNotFound)
}

func (s *QueryService) ListAwards(ctx context.Context) ([]domain.Award, error) {
	if s.awards == nil {
		return nil, fmt.Errorf("awards: %w", domain.ErrNotFound)
	}
	key := cachePrefix + "awards"
	var out []domain.Award
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, key, &out); err == nil && ok {
			return out, nil
		} else if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
	}
	out, err := s.awards.ListAwards(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// StoreSource serves filtered reads straight from a RestaurantStore.
type StoreSource struct{ Store domain.RestaurantStore }

func (s StoreSource) ListRestaurants(ctx context.Context, f domain.Filter) ([]domain.Restaurant, error) {
	rs, err := s.Store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Apply(rs, f), nil
}
