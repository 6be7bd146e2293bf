package domain

import "context"

// RestaurantStore owns the persisted collection. Writes replace the whole collection.
type RestaurantStore interface {
	ReadAll(ctx context.Context) ([]Restaurant, error)
	WriteAll(ctx context.Context, rs []Restaurant) error
}

// RestaurantSource answers filtered reads, from a store or from the content API.
type RestaurantSource interface {
	ListRestaurants(ctx context.Context, f Filter) ([]Restaurant, error)
}

type AwardSource interface {
	ListAwards(ctx context.Context) ([]Award, error)
}

// ContentClient runs a query against the headless content API and returns the raw documents.
type ContentClient interface {
	Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// DelPrefix drops every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
}

// CreateInput is the client-supplied subset of a Restaurant accepted by the create path.
type CreateInput struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Cuisine        []string   `json:"cuisine"`
	Area           string     `json:"area"`
	Location       Location   `json:"location"`
	PriceRange     PriceRange `json:"priceRange,omitempty"`
	Rating         *float64   `json:"rating,omitempty"`
	CoverImage     string     `json:"coverImage,omitempty"`
	Gallery        []string   `json:"gallery,omitempty"`
	Featured       bool       `json:"featured,omitempty"`
	BestPlace      bool       `json:"bestPlace,omitempty"`
	OpeningHours   string     `json:"openingHours,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Website        string     `json:"website,omitempty"`
	Specialties    []string   `json:"specialties,omitempty"`
	Ambiance       *Ambiance  `json:"ambiance,omitempty"`
	ServiceQuality *float64   `json:"serviceQuality,omitempty"`
	FoodQuality    *float64   `json:"foodQuality,omitempty"`
	ValueForMoney  *float64   `json:"valueForMoney,omitempty"`
	ReviewText     string     `json:"reviewText,omitempty"`
	VisitDate      string     `json:"visitDate,omitempty"`
	Highlights     []string   `json:"highlights,omitempty"`
	Address        string     `json:"address,omitempty"`
}
