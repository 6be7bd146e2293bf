package seed_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food_explorer/internal/domain"
	"food_explorer/internal/seed"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestRecords_BundledEntriesAreValid(t *testing.T) {
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	rs, err := seed.Records(now, nil)
	require.NoError(t, err)
	require.Len(t, rs, 5)

	seen := map[string]bool{}
	for _, r := range rs {
		assert.Regexp(t, slugRe, r.Slug)
		assert.False(t, seen[r.Slug], "duplicate slug %s", r.Slug)
		seen[r.Slug] = true
		assert.True(t, domain.KnownArea(r.Area), r.Area)
		assert.True(t, r.PriceRange.Valid())
		assert.Equal(t, r.Rating >= domain.RecommendThreshold, r.WouldRecommend)
		assert.NotNil(t, r.Location.Coords)
		assert.Regexp(t, `^restaurant_`, r.ID)
	}
	assert.Equal(t, "the-spice-route", rs[0].Slug)
	assert.Equal(t, "2024-11-15", rs[0].VisitDate)
}

func TestRecords_UsesInjectedIDs(t *testing.T) {
	n := 0
	rs, err := seed.Records(time.Now(), func() string { n++; return "restaurant_fixed" })
	require.NoError(t, err)
	assert.Equal(t, len(rs), n)
	assert.Equal(t, "restaurant_fixed", rs[0].ID)
}
