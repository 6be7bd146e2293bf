package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type PriceRange string

const (
	PriceBudget   PriceRange = "budget"
	PriceModerate PriceRange = "moderate"
	PricePremium  PriceRange = "premium"
	PriceLuxury   PriceRange = "luxury"
)

func (p PriceRange) Valid() bool {
	switch p {
	case PriceBudget, PriceModerate, PricePremium, PriceLuxury:
		return true
	}
	return false
}

// Neighbourhoods a review can be filed under.
var Areas = []string{
	"RK Beach",
	"Dwaraka Nagar",
	"MVP Colony",
	"Madhurawada",
	"Gajuwaka",
	"Rushikonda",
	"Siripuram",
	"Jagadamba",
}

var Cuisines = []string{
	"Indian",
	"Chinese",
	"Continental",
	"Italian",
	"Seafood",
	"Street Food",
	"Biryani",
	"Fast Food",
	"Cafe",
	"Desserts",
}

func KnownArea(a string) bool {
	for _, v := range Areas {
		if v == a {
			return true
		}
	}
	return false
}

const (
	MinRating = 0.0
	MaxRating = 5.0

	// ratings at or above this mark a place as recommended
	RecommendThreshold = 4.0
)

type Restaurant struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Cuisine     []string   `json:"cuisine"`
	Area        string     `json:"area"`
	Location    Location   `json:"location"`
	PriceRange  PriceRange `json:"priceRange"`
	Rating      float64    `json:"rating"`
	CoverImage  string     `json:"coverImage"`
	Gallery     []string   `json:"gallery"`
	Highlights  []string   `json:"highlights,omitempty"`
	Address     string     `json:"address,omitempty"`
	ReviewDate  string     `json:"reviewDate,omitempty"`

	Featured       bool `json:"featured"`
	BestPlace      bool `json:"bestPlace"`
	WouldRecommend bool `json:"wouldRecommend"`

	OpeningHours   string    `json:"openingHours"`
	Phone          string    `json:"phone"`
	Website        string    `json:"website"`
	Specialties    []string  `json:"specialties"`
	Ambiance       *Ambiance `json:"ambiance,omitempty"`
	ServiceQuality *float64  `json:"serviceQuality,omitempty"`
	FoodQuality    *float64  `json:"foodQuality,omitempty"`
	ValueForMoney  *float64  `json:"valueForMoney,omitempty"`
	ReviewText     string    `json:"reviewText"`
	VisitDate      string    `json:"visitDate"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// HasCuisine reports whether c is one of the record's cuisines (case-insensitive).
func (r Restaurant) HasCuisine(c string) bool {
	for _, v := range r.Cuisine {
		if equalFold(v, c) {
			return true
		}
	}
	return false
}

type Award struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Year         int    `json:"year"`
	Organization string `json:"organization,omitempty"`
	Image        string `json:"image"`
	Featured     bool   `json:"featured,omitempty"`
	DisplayOrder *int   `json:"displayOrder,omitempty"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is either a free-text address or a coordinate pair.
type Location struct {
	Text   string
	Coords *Coords
}

func (l Location) IsZero() bool { return l.Text == "" && l.Coords == nil }

func (l Location) MarshalJSON() ([]byte, error) {
	if l.Coords != nil {
		return json.Marshal(l.Coords)
	}
	return json.Marshal(l.Text)
}

func (l *Location) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = Location{}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Location{Text: s}
		return nil
	case b[0] == '{':
		// also accepts geopoint objects carrying extra keys such as _type/alt
		var c struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		if c.Lat == nil || c.Lng == nil {
			return fmt.Errorf("location: object needs lat and lng")
		}
		*l = Location{Coords: &Coords{Lat: *c.Lat, Lng: *c.Lng}}
		return nil
	}
	return fmt.Errorf("location: unsupported value %s", b)
}

// Ambiance is a free-form label ("Casual") or a numeric score; the original form survives a round trip.
type Ambiance struct {
	Label string
	Score *float64
}

func AmbianceLabel(s string) *Ambiance { return &Ambiance{Label: s} }

func (a Ambiance) String() string {
	if a.Score != nil {
		return strconv.FormatFloat(*a.Score, 'f', -1, 64)
	}
	return a.Label
}

func (a Ambiance) MarshalJSON() ([]byte, error) {
	if a.Score != nil {
		return json.Marshal(*a.Score)
	}
	return json.Marshal(a.Label)
}

func (a *Ambiance) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.Label)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("ambiance: %w", err)
	}
	a.Score = &f
	return nil
}
