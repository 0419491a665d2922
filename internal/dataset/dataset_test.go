package dataset

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/meur/skyatlas/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const snapshot = `{
	"ships": [
		{"name": "Shuttle", "race": "human", "category": "Transport", "cost": 180000, "licenses": [], "sprite": ["ship/shuttle", false]},
		{"name": "Bounder", "race": "human", "category": "Transport", "cost": 1400000, "bunks": 6, "requiredCrew": 1,
		 "licenses": [], "sprite": ["ship/bounder", true], "selfDestruct": 0.25}
	],
	"outfits": [
		{"name": "Water Cooling", "category": "Systems", "cost": 15000, "outfitSpace": 10, "cooling": 30}
	],
	"shipModifications": [
		{"original": "Bounder", "name": "Bounder (Armed)", "outfits": [{"name": "Heavy Laser", "quantity": 2}]}
	]
}`

// blockingSource holds Load until release is closed
type blockingSource struct {
	release chan struct{}
	data    *models.Dataset
	err     error
	calls   int
}

func (s *blockingSource) Load(ctx context.Context) (*models.Dataset, error) {
	s.calls++
	<-s.release
	return s.data, s.err
}

func TestDecode(t *testing.T) {
	d, err := Decode(bytes.NewBufferString(snapshot))
	require.NoError(t, err)

	require.Len(t, d.Ships, 2)
	assert.Equal(t, 0.0, d.Ships[0].Bunks)
	assert.Nil(t, d.Ships[0].SelfDestruct)
	assert.Equal(t, models.Sprite{Path: "ship/bounder", Animated: true}, d.Ships[1].Sprite)
	require.NotNil(t, d.Ships[1].SelfDestruct)
	assert.Equal(t, 0.25, *d.Ships[1].SelfDestruct)
	assert.Nil(t, d.Outfits[0].ActiveCooling)
	assert.Equal(t, "Bounder", d.ShipModifications[0].Original)
}

func TestDecode_Gzip(t *testing.T) {
	d, err := Decode(bytes.NewBufferString(snapshot))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d, true))

	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(bytes.NewBufferString(`{"ships": [`))
	assert.Error(t, err)

	_, err = Decode(bytes.NewBufferString(`{"ships": [{"name": "A"}, {"name": "A"}]}`))
	assert.ErrorIs(t, err, models.ErrInvalidDataset)

	_, err = Decode(bytes.NewBufferString(`{"shipModifications": [{"original": "Ghost", "name": "Ghost (B)"}]}`))
	assert.ErrorIs(t, err, models.ErrInvalidDataset)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json.gz")

	d, err := Decode(bytes.NewBufferString(snapshot))
	require.NoError(t, err)
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Encode(out, d, true))
	require.NoError(t, out.Close())

	got, err := SourceFor(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Ships, 2)

	_, err = SourceFor(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(snapshot))
	}))
	defer srv.Close()

	require.IsType(t, &HTTPSource{}, SourceFor(srv.URL+"/data.json"))

	src := &HTTPSource{URL: srv.URL + "/data.json", Client: srv.Client()}
	d, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Outfits, 1)

	missing := &HTTPSource{URL: srv.URL + "/missing.json", Client: srv.Client()}
	_, err = missing.Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_Lifecycle(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), data: &models.Dataset{}}
	l := NewLoader(src, zaptest.NewLogger(t))

	assert.Equal(t, Loading, l.State())
	_, err := l.Dataset()
	assert.ErrorIs(t, err, ErrLoading)

	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)
	l.Start(ctx)
	// cancelling the caller does not abort an issued load
	cancel()
	close(src.release)

	d, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, src.data, d)
	assert.Equal(t, Loaded, l.State())
	assert.Equal(t, 1, src.calls)
}

func TestLoader_Failure(t *testing.T) {
	boom := errors.New("connection reset")
	src := &blockingSource{release: make(chan struct{}), err: boom}
	close(src.release)

	l := NewLoader(src, nil)
	l.Start(context.Background())

	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("load did not resolve")
	}
	assert.Equal(t, Failed, l.State())
	assert.Equal(t, "failed", l.State().String())
	_, err := l.Dataset()
	assert.ErrorIs(t, err, boom)
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), data: &models.Dataset{}}
	l := NewLoader(src, nil)
	l.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(src.release)
	<-l.Done()
}
