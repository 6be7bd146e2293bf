package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"food_explorer/internal/domain"
)

// ContentGateway reads restaurants and awards from the headless content API.
// It holds no local state; the content source is authoritative.
type ContentGateway struct {
	client domain.ContentClient
}

func NewContentGateway(c domain.ContentClient) *ContentGateway {
	return &ContentGateway{client: c}
}

func (g *ContentGateway) ListRestaurants(ctx context.Context, f domain.Filter) ([]domain.Restaurant, error) {
	q, params := buildRestaurantsQuery(f)
	docs, err := g.client.Query(ctx, q, params)
	if err != nil {
		return nil, fmt.Errorf("content query restaurants: %w", err)
	}
	out := make([]domain.Restaurant, 0, len(docs))
	for _, d := range docs {
		r := mapRestaurant(d)
		if r.ID == "" || r.Name == "" {
			log.Warn().Str("id", r.ID).Msg("content: skipping restaurant without id or name")
			continue
		}
		out = append(out, r)
	}
	// search runs here rather than in GROQ and also covers the area name
	f.SearchArea = true
	return domain.Apply(out, f), nil
}

func (g *ContentGateway) ListAwards(ctx context.Context) ([]domain.Award, error) {
	docs, err := g.client.Query(ctx, awardsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("content query awards: %w", err)
	}
	out := make([]domain.Award, 0, len(docs))
	for _, d := range docs {
		out = append(out, mapAward(d))
	}
	return out, nil
}
