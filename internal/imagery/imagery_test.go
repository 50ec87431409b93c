package imagery

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/sentinel-audit/sentinel/internal/cache"
)

func TestRegion_PolygonClosedRing(t *testing.T) {
	r := Region{Lat: 61.5, Lon: 24.3, BufferMeters: 500}
	poly := r.Polygon()

	if len(poly) != 5 {
		t.Fatalf("Expected a closed 5-point ring, got %d points", len(poly))
	}
	if poly[0] != poly[4] {
		t.Error("Expected the ring to close on its first corner")
	}

	dLat := poly[2][1] - poly[0][1]
	wantDLat := 2 * 500 / 111_320.0
	if math.Abs(dLat-wantDLat) > 1e-9 {
		t.Errorf("Expected latitude span %v, got %v", wantDLat, dLat)
	}

	// Longitude span widens with latitude.
	dLon := poly[1][0] - poly[0][0]
	if dLon <= wantDLat {
		t.Errorf("Expected cos-scaled longitude span wider than %v, got %v", wantDLat, dLon)
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	s := NewSimulator()
	q := Query{Region: Region{Lat: 61.5, Lon: 24.3, BufferMeters: 500}}

	first, err := s.Count(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := s.Count(context.Background(), q)
	if first != second || first < 4 {
		t.Errorf("Expected a stable count of at least 4, got %d then %d", first, second)
	}

	mean, err := s.Reduce(context.Background(), q, MeanReduction())
	if err != nil {
		t.Fatal(err)
	}
	if mean != 0.8112 {
		t.Errorf("Expected the boreal demo index, got %v", mean)
	}
}

func TestSimulator_Empty(t *testing.T) {
	s := &Simulator{Empty: true}
	count, err := s.Count(context.Background(), Query{})
	if err != nil || count != 0 {
		t.Errorf("Expected an empty stack, got %d (%v)", count, err)
	}
}

func TestSimulator_MaskFractionBounds(t *testing.T) {
	s := NewSimulator()
	threshold := 0.2

	for _, lat := range []float64{61.5, -10.1, 10.0} {
		q := Query{Region: Region{Lat: lat, Lon: 24.3}}
		fraction, err := s.Reduce(context.Background(), q, MaskMeanReduction(threshold))
		if err != nil {
			t.Fatal(err)
		}
		if fraction < 0 || fraction > 1 {
			t.Errorf("lat %v: fraction %v out of [0,1]", lat, fraction)
		}
	}
}

func TestSimulator_SouthernSiteEscalates(t *testing.T) {
	s := NewSimulator()
	q := Query{Region: Region{Lat: -10.1, Lon: -55.2}}

	fraction, err := s.Reduce(context.Background(), q, MaskMeanReduction(0.2))
	if err != nil {
		t.Fatal(err)
	}
	if fraction <= 0.10 {
		t.Errorf("Expected the degraded demo region above the escalation threshold, got %v", fraction)
	}
}

// countingBackend counts pass-through calls.
type countingBackend struct {
	Simulator
	counts  int
	reduces int
}

func (c *countingBackend) Count(ctx context.Context, q Query) (int, error) {
	c.counts++
	return c.Simulator.Count(ctx, q)
}

func (c *countingBackend) Reduce(ctx context.Context, q Query, r Reduction) (float64, error) {
	c.reduces++
	return c.Simulator.Reduce(ctx, q, r)
}

func TestCachedBackend_ServesRepeatsFromCache(t *testing.T) {
	inner := &countingBackend{}
	cached := NewCachedBackend(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	q := Query{Region: Region{Lat: 61.5, Lon: 24.3, BufferMeters: 500}}

	first, err := cached.Count(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Count(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Expected identical cached count, got %d then %d", first, second)
	}
	if inner.counts != 1 {
		t.Errorf("Expected one backend call, got %d", inner.counts)
	}

	for i := 0; i < 2; i++ {
		if _, err := cached.Reduce(context.Background(), q, MeanReduction()); err != nil {
			t.Fatal(err)
		}
	}
	if inner.reduces != 1 {
		t.Errorf("Expected one reduce call, got %d", inner.reduces)
	}
}

func TestCachedBackend_DistinctQueriesDistinctEntries(t *testing.T) {
	inner := &countingBackend{}
	cached := NewCachedBackend(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	if _, err := cached.Count(context.Background(), Query{Region: Region{Lat: 61.5, Lon: 24.3}}); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Count(context.Background(), Query{Region: Region{Lat: -10.1, Lon: -55.2}}); err != nil {
		t.Fatal(err)
	}
	if inner.counts != 2 {
		t.Errorf("Expected both queries to reach the backend, got %d", inner.counts)
	}
}

func TestCachedBackend_DistinctReductionsDistinctEntries(t *testing.T) {
	inner := &countingBackend{}
	cached := NewCachedBackend(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	q := Query{Region: Region{Lat: 61.5, Lon: 24.3}}

	mean, err := cached.Reduce(context.Background(), q, MeanReduction())
	if err != nil {
		t.Fatal(err)
	}
	masked, err := cached.Reduce(context.Background(), q, MaskMeanReduction(0.2))
	if err != nil {
		t.Fatal(err)
	}
	if mean == masked {
		t.Error("Expected the mask reduction to differ from the mean")
	}
	if inner.reduces != 2 {
		t.Errorf("Expected both reductions to reach the backend, got %d", inner.reduces)
	}
}
