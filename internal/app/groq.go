package app

import (
	"strings"

	"food_explorer/internal/domain"
)

// Projection requested for every restaurant document; image references are
// resolved to URLs on the content side.
const restaurantProjection = `{
  _id,
  _createdAt,
  _updatedAt,
  name,
  "slug": slug.current,
  description,
  cuisine,
  area,
  "location": location,
  address,
  reviewDate,
  priceRange,
  rating,
  "coverImage": coverImage.asset->url,
  "gallery": gallery[].asset->url,
  highlights,
  featured,
  bestPlace,
  phone,
  website,
  openingHours,
  specialties,
  ambiance,
  serviceQuality,
  foodQuality,
  valueForMoney,
  reviewText,
  visitDate,
  wouldRecommend
}`

const awardsQuery = `*[_type == "award"] | order(displayOrder asc, year desc) {
  _id,
  title,
  description,
  year,
  organization,
  "image": image.asset->url,
  featured,
  displayOrder
}`

// buildRestaurantsQuery translates the filter into a GROQ query plus its
// parameters. Free-text search is not part of the query; it is applied after
// retrieval.
func buildRestaurantsQuery(f domain.Filter) (string, map[string]any) {
	conds := []string{`_type == "restaurant"`}
	params := map[string]any{}
	if f.FeaturedOnly {
		conds = append(conds, "featured == true")
	}
	if f.Area != "" {
		conds = append(conds, "area == $area")
		params["area"] = f.Area
	}
	if f.Cuisine != "" {
		conds = append(conds, "$cuisine in cuisine")
		params["cuisine"] = f.Cuisine
	}
	if f.MinRating != nil {
		conds = append(conds, "rating >= $minRating")
		params["minRating"] = *f.MinRating
	}
	if f.PriceRange != "" {
		conds = append(conds, "priceRange == $priceRange")
		params["priceRange"] = string(f.PriceRange)
	}
	q := "*[" + strings.Join(conds, " && ") + "] | order(_createdAt desc) " + restaurantProjection
	return q, params
}
