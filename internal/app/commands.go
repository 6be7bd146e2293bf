package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"food_explorer/internal/domain"
)

// RestaurantService owns the create/delete read-modify-write cycle over a store.
// The mutex serialises writers inside this process only.
type RestaurantService struct {
	store domain.RestaurantStore
	cache domain.Cache

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewRestaurantService(s domain.RestaurantStore, cache domain.Cache) *RestaurantService {
	return &RestaurantService{store: s, cache: cache, now: time.Now, newID: NewID}
}

// WithClock overrides the time and id sources; used by tests and the seeder.
func (s *RestaurantService) WithClock(now func() time.Time, newID func() string) *RestaurantService {
	if now != nil {
		s.now = now
	}
	if newID != nil {
		s.newID = newID
	}
	return s
}

func (s *RestaurantService) Create(ctx context.Context, in domain.CreateInput) (domain.Restaurant, error) {
	if err := in.Validate(); err != nil {
		return domain.Restaurant{}, err
	}
	slug := Slugify(in.Name)
	if slug == "" {
		return domain.Restaurant{}, &domain.ValidationError{Reason: "Name must contain letters or digits", Fields: []string{"name"}}
	}

	var created domain.Restaurant
	err := s.update(ctx, func(rs []domain.Restaurant) ([]domain.Restaurant, error) {
		for _, r := range rs {
			if r.Slug == slug {
				return nil, fmt.Errorf("slug %q: %w", slug, domain.ErrConflict)
			}
		}
		created = domain.NewRestaurant(in, s.newID(), slug, s.now())
		// newest first
		out := make([]domain.Restaurant, 0, len(rs)+1)
		out = append(out, created)
		return append(out, rs...), nil
	})
	if err != nil {
		return domain.Restaurant{}, err
	}
	log.Info().Str("id", created.ID).Str("slug", created.Slug).Msg("restaurant created")
	return created, nil
}

// Delete removes every record with the given id. The store is not written when nothing matches.
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &domain.ValidationError{Reason: "Restaurant ID is required", Fields: []string{"id"}}
	}
	err := s.update(ctx, func(rs []domain.Restaurant) ([]domain.Restaurant, error) {
		out := make([]domain.Restaurant, 0, len(rs))
		for _, r := range rs {
			if r.ID != id {
				out = append(out, r)
			}
		}
		if len(out) == len(rs) {
			return nil, fmt.Errorf("restaurant %q: %w", id, domain.ErrNotFound)
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("restaurant deleted")
	return nil
}

// Seed writes rs to an empty store. It refuses to overwrite existing data unless force is set.
func (s *RestaurantService) Seed(ctx context.Context, rs []domain.Restaurant, force bool) (int, error) {
	var n int
	err := s.update(ctx, func(cur []domain.Restaurant) ([]domain.Restaurant, error) {
		if len(cur) > 0 && !force {
			return nil, fmt.Errorf("store already holds %d restaurants: %w", len(cur), domain.ErrConflict)
		}
		seen := make(map[string]struct{}, len(rs))
		out := make([]domain.Restaurant, 0, len(rs))
		for _, r := range rs {
			if _, dup := seen[r.Slug]; dup {
				log.Warn().Str("slug", r.Slug).Msg("seed: duplicate slug skipped")
				continue
			}
			seen[r.Slug] = struct{}{}
			out = append(out, r)
		}
		n = len(out)
		return out, nil
	})
	return n, err
}

// update runs one read-modify-write cycle. fn returning an error aborts without writing.
func (s *RestaurantService) update(ctx context.Context, fn func([]domain.Restaurant) ([]domain.Restaurant, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read restaurants: %w", err)
	}
	next, err := fn(rs)
	if err != nil {
		return err
	}
	if err := s.store.WriteAll(ctx, next); err != nil {
		return fmt.Errorf("write restaurants: %w", err)
	}
	if s.cache != nil {
		s.invalidateLists(ctx)
	}
	return nil
}

func (s *RestaurantService) invalidateLists(ctx context.Context) {
	if err := s.cache.DelPrefix(ctx, cachePrefix); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
