package domain

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filter narrows a restaurant collection. Zero-valued fields are inactive;
// all active predicates are ANDed.
type Filter struct {
	FeaturedOnly bool
	Area         string
	Cuisine      string
	Search       string
	// SearchArea extends Search to the area name as well as name/description.
	SearchArea bool
	MinRating  *float64
	PriceRange PriceRange
}

// ParseFilter reads list query parameters. The UI sentinels "All"/"all" and
// minRating=0 mean "no filter".
func ParseFilter(q url.Values) Filter {
	f := Filter{
		FeaturedOnly: q.Get("featured") == "true",
		Area:         unsentinel(q.Get("area")),
		Cuisine:      unsentinel(q.Get("cuisine")),
		Search:       strings.TrimSpace(q.Get("search")),
		PriceRange:   PriceRange(unsentinel(q.Get("priceRange"))),
	}
	if v := q.Get("minRating"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			f.MinRating = &n
		}
	}
	return f
}

func unsentinel(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Values encodes f the way ParseFilter reads it.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.FeaturedOnly {
		v.Set("featured", "true")
	}
	if f.Area != "" {
		v.Set("area", f.Area)
	}
	if f.Cuisine != "" {
		v.Set("cuisine", f.Cuisine)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.MinRating != nil {
		v.Set("minRating", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	if f.PriceRange != "" {
		v.Set("priceRange", string(f.PriceRange))
	}
	return v
}

// Key is a stable representation used for cache keys.
func (f Filter) Key() string {
	v := f.Values()
	if f.SearchArea {
		v.Set("searchArea", "true")
	}
	return v.Encode()
}

func (f Filter) Match(r Restaurant) bool {
	if f.FeaturedOnly && !r.Featured {
		return false
	}
	if f.Area != "" && !equalFold(r.Area, f.Area) {
		return false
	}
	if f.Cuisine != "" && !r.HasCuisine(f.Cuisine) {
		return false
	}
	if f.MinRating != nil && r.Rating < *f.MinRating {
		return false
	}
	if f.PriceRange != "" && !equalFold(string(r.PriceRange), string(f.PriceRange)) {
		return false
	}
	if f.Search != "" && !f.matchSearch(r) {
		return false
	}
	return true
}

func (f Filter) matchSearch(r Restaurant) bool {
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(r.Name), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle) {
		return true
	}
	return f.SearchArea && strings.Contains(strings.ToLower(r.Area), needle)
}

// Apply returns the records matching f, preserving input order. The input is not modified.
func Apply(rs []Restaurant, f Filter) []Restaurant {
	out := make([]Restaurant, 0, len(rs))
	for _, r := range rs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// TopByRating returns the n highest rated records, ties kept in input order.
func TopByRating(rs []Restaurant, n int) []Restaurant {
	if n < 0 {
		n = 0
	}
	out := make([]Restaurant, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }
