package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/models"
	"github.com/meur/skyatlas/internal/session"
)

type stubSource struct {
	release chan struct{}
	data    *models.Dataset
	err     error
}

func (s *stubSource) Load(ctx context.Context) (*models.Dataset, error) {
	if s.release != nil {
		<-s.release
	}
	return s.data, s.err
}

func ptr(v float64) *float64 { return &v }

func fixture() *models.Dataset {
	return &models.Dataset{
		Ships: []models.Ship{
			{Name: "Shuttle", Race: "human", Category: "Transport", Cost: 180000, Licenses: []string{}},
			{Name: "Falcon", Race: "human", Category: "Heavy Warship", Cost: 7500000, Licenses: []string{"Navy"}},
			{Name: "Corvette", Race: "pirate", Category: "Light Warship", Cost: 1900000, Licenses: []string{"Pirate", "Navy"}},
		},
		Outfits: []models.Outfit{
			{Name: "Water Cooling", Category: "Systems", Cost: 15000, OutfitSpace: 10, Cooling: ptr(30)},
			{Name: "Liquid Helium Cooler", Category: "Systems", Cost: 80000, OutfitSpace: 10, ActiveCooling: ptr(90)},
		},
		ShipModifications: []models.ShipModification{
			{Original: "Falcon", Name: "Falcon (Plasma)", Outfits: []models.OutfitItem{{Name: "Plasma Cannon", Quantity: 4}}},
		},
	}
}

func loadedServer(t *testing.T) *Server {
	t.Helper()
	loader := dataset.NewLoader(&stubSource{data: fixture()}, nil)
	loader.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := loader.Wait(ctx)
	require.NoError(t, err)
	return New(loader, session.NewManager(time.Hour), zaptest.NewLogger(t), Options{AllowedOrigins: []string{"*"}})
}

// client replays the session cookie like a browser would
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

type tableResponse struct {
	Headers []struct {
		Label     string `json:"label"`
		Sortable  bool   `json:"sortable"`
		Direction string `json:"direction"`
	} `json:"headers"`
	Rows []struct {
		Name string `json:"name"`
	} `json:"rows"`
	Total int `json:"total"`
	Shown int `json:"shown"`
}

func decodeTable(t *testing.T, rec *httptest.ResponseRecorder) ([]string, tableResponse) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp tableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	names := make([]string, len(resp.Rows))
	for i, r := range resp.Rows {
		names[i] = r.Name
	}
	return names, resp
}

func TestServer_Health(t *testing.T) {
	srv := loadedServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestServer_LoadingAndFailedStates(t *testing.T) {
	src := &stubSource{release: make(chan struct{}), data: fixture()}
	loader := dataset.NewLoader(src, nil)
	loader.Start(context.Background())
	srv := New(loader, session.NewManager(0), nil, Options{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.JSONEq(t, `{"state":"loading"}`, rec.Body.String())
	close(src.release)
	<-loader.Done()

	failing := dataset.NewLoader(&stubSource{err: errors.New("no route to host")}, nil)
	failing.Start(context.Background())
	<-failing.Done()
	srv = New(failing, session.NewManager(0), nil, Options{})

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.JSONEq(t, `{"state":"failed","error":"no route to host"}`, rec.Body.String())
}

func TestServer_OrderingCyclesPerSession(t *testing.T) {
	srv := loadedServer(t)
	c := &client{t: t, h: srv}

	names, _ := decodeTable(t, c.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Shuttle", "Falcon", "Corvette"}, names)
	require.NotNil(t, c.cookie)

	rec := c.do(http.MethodPost, "/api/tables/ships/ordering", orderingRequest{Column: "Cost"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ordering":{"column":"Cost","direction":"asc"}}`, rec.Body.String())

	names, resp := decodeTable(t, c.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Shuttle", "Corvette", "Falcon"}, names)
	assert.Equal(t, "asc", resp.Headers[2].Direction)

	c.do(http.MethodPost, "/api/tables/ships/ordering", orderingRequest{Column: "Cost"})
	names, _ = decodeTable(t, c.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Falcon", "Corvette", "Shuttle"}, names)

	rec = c.do(http.MethodPost, "/api/tables/ships/ordering", orderingRequest{Column: "Cost"})
	assert.JSONEq(t, `{"ordering":{}}`, rec.Body.String())

	// a second client starts from the default state
	other := &client{t: t, h: srv}
	c.do(http.MethodPost, "/api/tables/ships/ordering", orderingRequest{Column: "Cost"})
	names, _ = decodeTable(t, other.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Shuttle", "Falcon", "Corvette"}, names)
}

func TestServer_OrderingValidation(t *testing.T) {
	c := &client{t: t, h: loadedServer(t)}

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/tables/ships/ordering", orderingRequest{Column: "Warp"}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/tables/weapons/ordering", orderingRequest{Column: "Cost"}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/tables/weapons", nil).Code)
}

func TestServer_Coolers(t *testing.T) {
	c := &client{t: t, h: loadedServer(t)}

	c.do(http.MethodPost, "/api/tables/coolers/ordering", orderingRequest{Column: "Cooling per space"})
	c.do(http.MethodPost, "/api/tables/coolers/ordering", orderingRequest{Column: "Cooling per space"})
	names, resp := decodeTable(t, c.do(http.MethodGet, "/api/tables/coolers", nil))
	assert.Equal(t, []string{"Liquid Helium Cooler", "Water Cooling"}, names)
	assert.Equal(t, 2, resp.Total)

	// the ships table keeps its own ordering
	names, _ = decodeTable(t, c.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Shuttle", "Falcon", "Corvette"}, names)
}

func TestServer_Filters(t *testing.T) {
	c := &client{t: t, h: loadedServer(t)}

	rec := c.do(http.MethodPost, "/api/filters/license", filterRequest{Value: "Pirate"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"value":"Pirate","included":false}`, rec.Body.String())

	names, _ := decodeTable(t, c.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Shuttle", "Falcon", "Corvette"}, names)

	c.do(http.MethodPost, "/api/filters/race", filterRequest{Value: "human"})
	names, resp := decodeTable(t, c.do(http.MethodGet, "/api/tables/ships", nil))
	assert.Equal(t, []string{"Corvette"}, names)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.Shown)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/filters/race", filterRequest{Value: "quarg"}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/filters/faction", filterRequest{Value: "x"}).Code)

	rec = c.do(http.MethodPost, "/api/filters/visibility", nil)
	assert.JSONEq(t, `{"collapsed":false}`, rec.Body.String())

	var panel session.Filters
	rec = c.do(http.MethodGet, "/api/filters", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &panel))
	assert.False(t, panel.Collapsed)
	assert.Len(t, panel.Dimensions["race"], 2)
}

func TestServer_ShipPages(t *testing.T) {
	c := &client{t: t, h: loadedServer(t)}

	rec := c.do(http.MethodGet, "/api/ships/falcon/falcon-plasma", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Selected string `json:"selected"`
		Outfits  []models.OutfitItem
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "falcon-plasma", page.Selected)
	assert.Equal(t, "Plasma Cannon", page.Outfits[0].Name)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/ships/falcon", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/ships/leviathan", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/ships/falcon/falcon-heavy", nil).Code)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/outfits/water-cooling", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/outfits/warp-core", nil).Code)
}

func TestServer_Tables(t *testing.T) {
	c := &client{t: t, h: loadedServer(t)}
	rec := c.do(http.MethodGet, "/api/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tables []tableSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))
	require.Len(t, tables, 5)
	assert.Equal(t, "ships", tables[0].ID)
	assert.True(t, tables[0].Filterable)
}
