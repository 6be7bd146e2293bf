package integration

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "food_explorer/internal/adapters/http_server"
	redisad "food_explorer/internal/adapters/redis"
	"food_explorer/internal/app"
	"food_explorer/internal/client"
	"food_explorer/internal/domain"
	"food_explorer/internal/seed"
	"food_explorer/internal/storage/filestore"
)

// ---------- helpers ----------
func pfloat(f float64) *float64 { return &f }

type stack struct {
	api   *client.Client
	store *filestore.Store
	redis *miniredis.Miniredis
}

// newStack seeds a file store with the bundled restaurants and serves it
// through the real router with a redis cache in front.
func newStack(t *testing.T) stack {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	store := filestore.New(filepath.Join(t.TempDir(), "restaurants.json"))
	cmd := app.NewRestaurantService(store, cache)

	rs, err := seed.Records(time.Now(), app.NewID)
	require.NoError(t, err)
	n, err := cmd.Seed(ctx, rs, false)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	q := app.NewQueryService(app.StoreSource{Store: store}, nil, cache, time.Minute)
	srv := server.New([]string{"*"})
	srv.MountHandlers(&server.Handlers{Q: q, C: cmd})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	return stack{api: client.New(ts.URL), store: store, redis: mr}
}

// ---------- tests ----------

func TestE2E_BrowseSeededCollection(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	all := s.api.GetRestaurants(ctx, domain.Filter{})
	require.Len(t, all, 5)
	assert.Equal(t, "the-spice-route", all[0].Slug)

	featured := s.api.GetFeatured(ctx)
	assert.Len(t, featured, 3)
	for _, r := range featured {
		assert.True(t, r.Featured)
	}

	best := s.api.GetBestPlaces(ctx, 0)
	require.Len(t, best, client.DefaultBestLimit)
	assert.Equal(t, "The Spice Route", best[0].Name)
	assert.Equal(t, "Coastal Bistro", best[1].Name)

	indian := s.api.GetRestaurants(ctx, domain.Filter{Cuisine: "Indian", MinRating: pfloat(4.5)})
	var slugs []string
	for _, r := range indian {
		slugs = append(slugs, r.Slug)
	}
	assert.Equal(t, []string{"the-spice-route", "biryani-house"}, slugs)

	r, ok := s.api.GetBySlug(ctx, "bamboo-bay")
	require.True(t, ok)
	assert.Equal(t, "Dwaraka Nagar", r.Area)
	require.NotNil(t, r.Location.Coords)

	_, ok = s.api.GetBySlug(ctx, "missing-place")
	assert.False(t, ok)
}

func TestE2E_CreateAndDeleteRefreshCachedLists(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	// warm the cache
	require.Len(t, s.api.GetRestaurants(ctx, domain.Filter{Area: "Siripuram"}), 0)
	require.NotEmpty(t, s.redis.Keys())

	res := s.api.CreateRestaurant(ctx, domain.CreateInput{
		Name:        "Hilltop Cafe",
		Description: "Coffee with a view of the port",
		Cuisine:     []string{"Cafe"},
		Area:        "Siripuram",
		Location:    domain.Location{Text: "Siripuram Junction"},
		Rating:      pfloat(4.1),
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "hilltop-cafe", res.Data.Slug)
	assert.True(t, res.Data.WouldRecommend)

	got := s.api.GetRestaurants(ctx, domain.Filter{Area: "Siripuram"})
	require.Len(t, got, 1, "cached empty list must be invalidated by the write")

	dup := s.api.CreateRestaurant(ctx, domain.CreateInput{
		Name: "Hilltop  Cafe!", Description: "again", Cuisine: []string{"Cafe"},
		Area: "Siripuram", Location: domain.Location{Text: "x"},
	})
	assert.False(t, dup.Success)
	assert.Equal(t, "A restaurant with this name already exists", dup.Error)

	del := s.api.DeleteRestaurant(ctx, res.Data.ID)
	require.True(t, del.Success, del.Error)
	assert.Empty(t, s.api.GetRestaurants(ctx, domain.Filter{Area: "Siripuram"}))

	gone := s.api.DeleteRestaurant(ctx, res.Data.ID)
	assert.False(t, gone.Success)
	assert.Equal(t, "Restaurant not found", gone.Error)

	stored, err := s.store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestE2E_ServerDownDegradesToEmpty(t *testing.T) {
	api := client.New("http://127.0.0.1:1")
	assert.Empty(t, api.GetRestaurants(context.Background(), domain.Filter{}))
	res := api.DeleteRestaurant(context.Background(), "restaurant_x")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
