package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	DefaultOpeningHours = "Not specified"
	DefaultAmbiance     = "Casual"
)

// Validate checks the create input. Missing required fields are reported
// before range and enumeration problems.
func (in CreateInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if len(nonBlank(in.Cuisine)) == 0 {
		missing = append(missing, "cuisine")
	}
	if strings.TrimSpace(in.Area) == "" {
		missing = append(missing, "area")
	}
	if in.Location.IsZero() {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return &ValidationError{Reason: "Missing required fields", Fields: missing}
	}

	var invalid []string
	for name, v := range map[string]*float64{
		"rating":         in.Rating,
		"serviceQuality": in.ServiceQuality,
		"foodQuality":    in.FoodQuality,
		"valueForMoney":  in.ValueForMoney,
	} {
		if v != nil && (*v < MinRating || *v > MaxRating) {
			invalid = append(invalid, name)
		}
	}
	if in.Ambiance != nil && in.Ambiance.Score != nil &&
		(*in.Ambiance.Score < MinRating || *in.Ambiance.Score > MaxRating) {
		invalid = append(invalid, "ambiance")
	}
	if in.PriceRange != "" && !in.PriceRange.Valid() {
		invalid = append(invalid, "priceRange")
	}
	if !KnownArea(strings.TrimSpace(in.Area)) {
		invalid = append(invalid, "area")
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &ValidationError{Reason: "Invalid fields", Fields: invalid}
	}
	return nil
}

// NewRestaurant assembles a fully populated record from validated input.
// wouldRecommend is derived from the rating and cannot be set by the caller.
func NewRestaurant(in CreateInput, id, slug string, now time.Time) Restaurant {
	now = now.UTC()
	rating := 0.0
	if in.Rating != nil {
		rating = *in.Rating
	}
	orRating := func(p *float64) *float64 {
		if p != nil && *p > 0 {
			v := *p
			return &v
		}
		v := rating
		return &v
	}

	r := Restaurant{
		ID:             id,
		Slug:           slug,
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Cuisine:        nonBlank(in.Cuisine),
		Area:           strings.TrimSpace(in.Area),
		Location:       in.Location,
		PriceRange:     in.PriceRange,
		Rating:         rating,
		CoverImage:     in.CoverImage,
		Gallery:        orEmpty(in.Gallery),
		Highlights:     in.Highlights,
		Address:        in.Address,
		Featured:       in.Featured,
		BestPlace:      in.BestPlace,
		WouldRecommend: rating >= RecommendThreshold,
		OpeningHours:   orDefault(in.OpeningHours, DefaultOpeningHours),
		Phone:          in.Phone,
		Website:        in.Website,
		Specialties:    orEmpty(in.Specialties),
		Ambiance:       in.Ambiance,
		ServiceQuality: orRating(in.ServiceQuality),
		FoodQuality:    orRating(in.FoodQuality),
		ValueForMoney:  orRating(in.ValueForMoney),
		ReviewText:     orDefault(in.ReviewText, strings.TrimSpace(in.Description)),
		VisitDate:      orDefault(in.VisitDate, now.Format("2006-01-02")),
		CreatedAt:      &now,
		UpdatedAt:      &now,
	}
	if r.PriceRange == "" {
		r.PriceRange = PriceModerate
	}
	if r.Ambiance == nil || (r.Ambiance.Score == nil && r.Ambiance.Label == "") {
		r.Ambiance = AmbianceLabel(DefaultAmbiance)
	}
	return r
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
