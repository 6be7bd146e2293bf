package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "food_explorer/internal/adapters/http_server"
	"food_explorer/internal/app"
	"food_explorer/internal/domain"
	"food_explorer/internal/storage/filestore"
)

type body struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type fixture struct {
	handler http.Handler
	store   *filestore.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := filestore.New(filepath.Join(t.TempDir(), "data", "restaurants.json"))
	seq := 0
	cmd := app.NewRestaurantService(store, nil).WithClock(
		func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
		func() string { seq++; return "restaurant_test_" + string(rune('a'+seq-1)) },
	)
	q := app.NewQueryService(app.StoreSource{Store: store}, nil, nil, 0)

	srv := server.New(nil)
	srv.MountHandlers(&server.Handlers{Q: q, C: cmd})
	return fixture{handler: srv.Mux(), store: store}
}

func (f fixture) do(t *testing.T, method, target, payload string) (int, body) {
	t.Helper()
	var req *http.Request
	if payload != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)

	var b body
	if rr.Code != http.StatusNotModified {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b), "body: %s", rr.Body.String())
	}
	return rr.Code, b
}

func restaurantJSON(name, area string, cuisine []string, rating float64) string {
	b, _ := json.Marshal(map[string]any{
		"name":        name,
		"description": name + " serves good food",
		"cuisine":     cuisine,
		"area":        area,
		"location":    "Main Road, " + area,
		"rating":      rating,
	})
	return string(b)
}

func decodeList(t *testing.T, b body) []domain.Restaurant {
	t.Helper()
	var rs []domain.Restaurant
	require.NoError(t, json.Unmarshal(b.Data, &rs))
	return rs
}

func TestCreate_ComputesWouldRecommend(t *testing.T) {
	f := newFixture(t)

	code, b := f.do(t, http.MethodPost, "/restaurants", restaurantJSON("Biryani House", "Gajuwaka", []string{"Biryani"}, 4.2))
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, b.Success)
	var r domain.Restaurant
	require.NoError(t, json.Unmarshal(b.Data, &r))
	assert.Equal(t, "biryani-house", r.Slug)
	assert.True(t, r.WouldRecommend)
	assert.Equal(t, "2025-03-01", r.VisitDate)
	assert.Equal(t, domain.PriceModerate, r.PriceRange)

	code, b = f.do(t, http.MethodPost, "/restaurants", restaurantJSON("Bamboo Bay", "Dwaraka Nagar", []string{"Chinese"}, 3.9))
	require.Equal(t, http.StatusCreated, code)
	require.NoError(t, json.Unmarshal(b.Data, &r))
	assert.False(t, r.WouldRecommend)

	// newest first
	_, b = f.do(t, http.MethodGet, "/restaurants", "")
	rs := decodeList(t, b)
	require.Len(t, rs, 2)
	assert.Equal(t, "bamboo-bay", rs[0].Slug)
	assert.Equal(t, 2, *b.Count)
}

func TestCreate_SlugConflictLeavesCollectionUnchanged(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodPost, "/restaurants", restaurantJSON("Café Déjà Vu", "Siripuram", []string{"Cafe"}, 4))
	require.Equal(t, http.StatusCreated, code)

	code, b := f.do(t, http.MethodPost, "/restaurants", restaurantJSON("CAFÉ  déjà-vu!", "Siripuram", []string{"Cafe"}, 5))
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, b.Success)
	assert.NotEmpty(t, b.Error)

	rs, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

func TestCreate_MissingFields(t *testing.T) {
	f := newFixture(t)

	code, b := f.do(t, http.MethodPost, "/restaurants", `{"name":"Nameless","cuisine":["Indian"]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required fields", b.Error)
	assert.Contains(t, b.Message, "description")
	assert.Contains(t, b.Message, "location")

	_, err := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(err), "nothing must be written on validation failure")
}

func TestCreate_InvalidRatingAndJSON(t *testing.T) {
	f := newFixture(t)

	code, b := f.do(t, http.MethodPost, "/restaurants", restaurantJSON("Too Good", "RK Beach", []string{"Indian"}, 5.5))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, b.Message, "rating")

	code, _ = f.do(t, http.MethodPost, "/restaurants", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestList_AreaAndCuisine(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{
		restaurantJSON("Street Spice Corner", "MVP Colony", []string{"Street Food", "Indian"}, 4.3),
		restaurantJSON("MVP Noodles", "MVP Colony", []string{"Chinese"}, 4.0),
		restaurantJSON("The Spice Route", "RK Beach", []string{"Indian"}, 4.8),
	} {
		code, _ := f.do(t, http.MethodPost, "/restaurants", p)
		require.Equal(t, http.StatusCreated, code)
	}

	code, b := f.do(t, http.MethodGet, "/restaurants?area=MVP+Colony&cuisine=Indian", "")
	require.Equal(t, http.StatusOK, code)
	rs := decodeList(t, b)
	require.Len(t, rs, 1)
	assert.Equal(t, "street-spice-corner", rs[0].Slug)

	_, b = f.do(t, http.MethodGet, "/restaurants?search=SPICE&area=All", "")
	assert.Len(t, decodeList(t, b), 2)

	_, b = f.do(t, http.MethodGet, "/restaurants?minRating=4.5", "")
	assert.Len(t, decodeList(t, b), 1)
}

func TestList_EmptyStoreReturnsEmptyArray(t *testing.T) {
	f := newFixture(t)
	code, b := f.do(t, http.MethodGet, "/restaurants", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", string(b.Data))
	require.NotNil(t, b.Count)
	assert.Equal(t, 0, *b.Count)
}

func TestList_ETagRoundTrip(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req = httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	code, b := f.do(t, http.MethodPost, "/restaurants", restaurantJSON("Coastal Bistro", "Rushikonda", []string{"Seafood"}, 4.7))
	require.Equal(t, http.StatusCreated, code)
	var created domain.Restaurant
	require.NoError(t, json.Unmarshal(b.Data, &created))

	before, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)

	code, b = f.do(t, http.MethodDelete, "/restaurants?id=does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, b.Success)
	after, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed delete must not touch the file")

	code, _ = f.do(t, http.MethodDelete, "/restaurants", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, b = f.do(t, http.MethodDelete, "/restaurants?id="+created.ID, "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, b.Success)

	rs, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestBestPlacesAndDetail(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{
		restaurantJSON("A One", "RK Beach", []string{"Indian"}, 4.1),
		restaurantJSON("B Two", "RK Beach", []string{"Indian"}, 4.9),
		restaurantJSON("C Three", "RK Beach", []string{"Indian"}, 4.5),
	} {
		code, _ := f.do(t, http.MethodPost, "/restaurants", p)
		require.Equal(t, http.StatusCreated, code)
	}

	code, b := f.do(t, http.MethodGet, "/restaurants/best?limit=2", "")
	require.Equal(t, http.StatusOK, code)
	rs := decodeList(t, b)
	require.Len(t, rs, 2)
	assert.Equal(t, "b-two", rs[0].Slug)
	assert.Equal(t, "c-three", rs[1].Slug)

	code, _ = f.do(t, http.MethodGet, "/restaurants/best?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, b = f.do(t, http.MethodGet, "/restaurants/c-three", "")
	require.Equal(t, http.StatusOK, code)
	var r domain.Restaurant
	require.NoError(t, json.Unmarshal(b.Data, &r))
	assert.Equal(t, "C Three", r.Name)

	code, _ = f.do(t, http.MethodGet, "/restaurants/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
}

type failingSource struct{}

func (failingSource) ListRestaurants(context.Context, domain.Filter) ([]domain.Restaurant, error) {
	return nil, errors.New("content API down")
}

func TestReadOnlyBackendAndFailures(t *testing.T) {
	q := app.NewQueryService(failingSource{}, nil, nil, 0)
	srv := server.New([]string{"http://localhost:3000"})
	srv.MountHandlers(&server.Handlers{Q: q})
	f := fixture{handler: srv.Mux()}

	code, b := f.do(t, http.MethodGet, "/restaurants", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, b.Success)
	assert.Equal(t, "Failed to fetch restaurants", b.Error)
	assert.Equal(t, "[]", string(b.Data))

	code, _ = f.do(t, http.MethodPost, "/restaurants", restaurantJSON("X", "RK Beach", []string{"Indian"}, 4))
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	code, _ = f.do(t, http.MethodGet, "/awards", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCORSPreflight(t *testing.T) {
	srv := server.New([]string{"http://localhost:3000"})
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(failingSource{}, nil, nil, 0)})

	req := httptest.NewRequest(http.MethodOptions, "/restaurants", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
