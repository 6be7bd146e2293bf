package app

import (
	"strconv"
	"strings"
	"time"

	"food_explorer/internal/domain"
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the first non-empty string among paths, or "".
func lookupStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func lookupBool(m map[string]any, path string) bool {
	b, _ := lookupAny(m, path).(bool)
	return b
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func lookupTime(m map[string]any, paths ...string) *time.Time {
	s := lookupStr(m, paths...)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

/********** restaurant mapper **********/

func mapLocation(doc map[string]any) domain.Location {
	switch v := lookupAny(doc, "location").(type) {
	case string:
		return domain.Location{Text: v}
	case map[string]any:
		lat := getFloatFlexible(v, "lat")
		lng := getFloatFlexible(v, "lng", "lon")
		if lat != nil && lng != nil {
			return domain.Location{Coords: &domain.Coords{Lat: *lat, Lng: *lng}}
		}
	}
	// fall back to the free-text address when the document has no usable location
	return domain.Location{Text: lookupStr(doc, "address")}
}

func mapAmbiance(doc map[string]any) *domain.Ambiance {
	switch v := lookupAny(doc, "ambiance").(type) {
	case string:
		if v != "" {
			return domain.AmbianceLabel(v)
		}
	case float64:
		f := v
		return &domain.Ambiance{Score: &f}
	}
	return nil
}

func mapRestaurant(doc map[string]any) domain.Restaurant {
	r := domain.Restaurant{
		ID:             lookupStr(doc, "_id", "id"),
		Slug:           lookupStr(doc, "slug", "slug.current"),
		Name:           lookupStr(doc, "name"),
		Description:    lookupStr(doc, "description"),
		Cuisine:        firstSliceStrings(doc, "cuisine"),
		Area:           lookupStr(doc, "area"),
		Location:       mapLocation(doc),
		PriceRange:     domain.PriceRange(lookupStr(doc, "priceRange")),
		CoverImage:     lookupStr(doc, "coverImage", "coverImage.asset.url"),
		Gallery:        firstSliceStrings(doc, "gallery"),
		Highlights:     firstSliceStrings(doc, "highlights"),
		Address:        lookupStr(doc, "address"),
		ReviewDate:     lookupStr(doc, "reviewDate"),
		Featured:       lookupBool(doc, "featured"),
		BestPlace:      lookupBool(doc, "bestPlace"),
		OpeningHours:   lookupStr(doc, "openingHours"),
		Phone:          lookupStr(doc, "phone"),
		Website:        lookupStr(doc, "website"),
		Specialties:    firstSliceStrings(doc, "specialties"),
		Ambiance:       mapAmbiance(doc),
		ServiceQuality: getFloatFlexible(doc, "serviceQuality"),
		FoodQuality:    getFloatFlexible(doc, "foodQuality"),
		ValueForMoney:  getFloatFlexible(doc, "valueForMoney"),
		ReviewText:     lookupStr(doc, "reviewText"),
		VisitDate:      lookupStr(doc, "visitDate"),
		CreatedAt:      lookupTime(doc, "_createdAt", "createdAt"),
		UpdatedAt:      lookupTime(doc, "_updatedAt", "updatedAt"),
	}
	if r.Cuisine == nil {
		r.Cuisine = []string{}
	}
	if r.Gallery == nil {
		r.Gallery = []string{}
	}
	if r.Specialties == nil {
		r.Specialties = []string{}
	}
	if f := getFloatFlexible(doc, "rating"); f != nil {
		r.Rating = *f
	}
	if v, ok := lookupAny(doc, "wouldRecommend").(bool); ok {
		r.WouldRecommend = v
	} else {
		r.WouldRecommend = r.Rating >= domain.RecommendThreshold
	}
	if r.Slug == "" {
		r.Slug = Slugify(r.Name)
	}
	return r
}

func mapAward(doc map[string]any) domain.Award {
	a := domain.Award{
		ID:           lookupStr(doc, "_id"),
		Title:        lookupStr(doc, "title"),
		Description:  lookupStr(doc, "description"),
		Organization: lookupStr(doc, "organization"),
		Image:        lookupStr(doc, "image"),
		Featured:     lookupBool(doc, "featured"),
	}
	if y := getFloatFlexible(doc, "year"); y != nil {
		a.Year = int(*y)
	}
	if o := getFloatFlexible(doc, "displayOrder"); o != nil {
		n := int(*o)
		a.DisplayOrder = &n
	}
	return a
}
