package domain_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food_explorer/internal/domain"
)

func sample() []domain.Restaurant {
	return []domain.Restaurant{
		{ID: "1", Name: "The Spice Route", Description: "Beachfront dining", Area: "RK Beach", Cuisine: []string{"Indian", "Continental"}, Rating: 4.8, PriceRange: domain.PricePremium, Featured: true},
		{ID: "2", Name: "Bamboo Bay", Description: "Dim sum and noodles", Area: "Dwaraka Nagar", Cuisine: []string{"Chinese"}, Rating: 4.5, PriceRange: domain.PriceModerate, Featured: true},
		{ID: "3", Name: "Coastal Bistro", Description: "Fresh seafood", Area: "Rushikonda", Cuisine: []string{"Seafood", "Continental"}, Rating: 4.7, PriceRange: domain.PricePremium},
		{ID: "4", Name: "Street Spice Corner", Description: "Pani puri bar", Area: "MVP Colony", Cuisine: []string{"Street Food", "Indian"}, Rating: 4.3, PriceRange: domain.PriceBudget, Featured: true},
		{ID: "5", Name: "Biryani House", Description: "Dum biryani", Area: "Gajuwaka", Cuisine: []string{"Biryani", "Indian"}, Rating: 4.6, PriceRange: domain.PriceModerate},
	}
}

func ids(rs []domain.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	min := 4.6
	cases := []struct {
		name string
		f    domain.Filter
		want []string
	}{
		{"no filter keeps order", domain.Filter{}, []string{"1", "2", "3", "4", "5"}},
		{"featured", domain.Filter{FeaturedOnly: true}, []string{"1", "2", "4"}},
		{"area", domain.Filter{Area: "Gajuwaka"}, []string{"5"}},
		{"area and cuisine", domain.Filter{Area: "MVP Colony", Cuisine: "Indian"}, []string{"4"}},
		{"area and cuisine disjoint", domain.Filter{Area: "Gajuwaka", Cuisine: "Chinese"}, []string{}},
		{"cuisine ignores case", domain.Filter{Cuisine: "continental"}, []string{"1", "3"}},
		{"search name", domain.Filter{Search: "spice"}, []string{"1", "4"}},
		{"search description", domain.Filter{Search: "DIM"}, []string{"2"}},
		{"search skips area by default", domain.Filter{Search: "gajuwaka"}, []string{}},
		{"search area when asked", domain.Filter{Search: "gajuwaka", SearchArea: true}, []string{"5"}},
		{"min rating", domain.Filter{MinRating: &min}, []string{"1", "3", "5"}},
		{"price range", domain.Filter{PriceRange: domain.PriceModerate}, []string{"2", "5"}},
		{"all predicates", domain.Filter{FeaturedOnly: true, Cuisine: "Indian", PriceRange: domain.PriceBudget, Search: "pani"}, []string{"4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := sample()
			got := domain.Apply(in, tc.f)
			assert.Equal(t, tc.want, ids(got))
			assert.Equal(t, sample(), in, "input untouched")
			for _, r := range got {
				assert.True(t, tc.f.Match(r))
			}
		})
	}
}

func TestApply_ComposesAsIntersection(t *testing.T) {
	rs := sample()
	both := domain.Apply(rs, domain.Filter{FeaturedOnly: true, Cuisine: "Indian"})
	chained := domain.Apply(domain.Apply(rs, domain.Filter{FeaturedOnly: true}), domain.Filter{Cuisine: "Indian"})
	assert.Equal(t, ids(chained), ids(both))
}

func TestTopByRating(t *testing.T) {
	rs := sample()

	top := domain.TopByRating(rs, 3)
	assert.Equal(t, []string{"1", "3", "5"}, ids(top))
	assert.Equal(t, sample(), rs, "input untouched")

	assert.Len(t, domain.TopByRating(rs, 10), len(rs))
	assert.Empty(t, domain.TopByRating(rs, 0))
	assert.Empty(t, domain.TopByRating(rs, -1))
	assert.Equal(t, ids(top), ids(domain.TopByRating(top, 3)), "idempotent")

	all := domain.TopByRating(rs, len(rs))
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Rating, all[i].Rating)
	}
}

func TestTopByRating_TiesKeepInputOrder(t *testing.T) {
	rs := []domain.Restaurant{{ID: "a", Rating: 4}, {ID: "b", Rating: 5}, {ID: "c", Rating: 4}}
	assert.Equal(t, []string{"b", "a", "c"}, ids(domain.TopByRating(rs, 3)))
}

func TestParseFilter(t *testing.T) {
	f := domain.ParseFilter(url.Values{
		"featured":   {"true"},
		"area":       {"All"},
		"cuisine":    {"all"},
		"search":     {"  spice "},
		"minRating":  {"0"},
		"priceRange": {"premium"},
	})
	assert.True(t, f.FeaturedOnly)
	assert.Empty(t, f.Area)
	assert.Empty(t, f.Cuisine)
	assert.Equal(t, "spice", f.Search)
	assert.Nil(t, f.MinRating)
	assert.Equal(t, domain.PricePremium, f.PriceRange)

	f = domain.ParseFilter(url.Values{"minRating": {"4.5"}, "featured": {"yes"}})
	require.NotNil(t, f.MinRating)
	assert.Equal(t, 4.5, *f.MinRating)
	assert.False(t, f.FeaturedOnly)

	f = domain.ParseFilter(url.Values{"minRating": {"abc"}})
	assert.Nil(t, f.MinRating)
}

func TestFilterValuesRoundTrip(t *testing.T) {
	min := 4.2
	f := domain.Filter{FeaturedOnly: true, Area: "MVP Colony", Cuisine: "Street Food", Search: "puri", MinRating: &min, PriceRange: domain.PriceBudget}
	assert.Equal(t, f, domain.ParseFilter(f.Values()))
	assert.NotEqual(t, f.Key(), domain.Filter{}.Key())

	f.SearchArea = true
	assert.Contains(t, f.Key(), "searchArea=true")
}
