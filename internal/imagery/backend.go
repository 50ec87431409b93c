// Package imagery adapts an external geospatial statistics service to the
// verification stage. The stage composes queries (region, calendar window,
// cloud filter, spectral bands, reducer, pixel scale); all pixel math runs
// on the backend.
package imagery

import (
	"context"
	"fmt"
	"math"
)

const metersPerDegreeLat = 111_320.0

// Region is a square region of interest: a center point buffered by a fixed
// half-width in meters.
type Region struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	BufferMeters float64 `json:"buffer_meters"`
}

// Polygon returns the region corners as [lon, lat] pairs, closed ring,
// counter-clockwise from the south-west corner.
func (r Region) Polygon() [][2]float64 {
	dLat := r.BufferMeters / metersPerDegreeLat
	dLon := r.BufferMeters / (metersPerDegreeLat * math.Cos(r.Lat*math.Pi/180))

	sw := [2]float64{r.Lon - dLon, r.Lat - dLat}
	se := [2]float64{r.Lon + dLon, r.Lat - dLat}
	ne := [2]float64{r.Lon + dLon, r.Lat + dLat}
	nw := [2]float64{r.Lon - dLon, r.Lat + dLat}
	return [][2]float64{sw, se, ne, nw, sw}
}

// Query identifies an image stack: collection filtered by region, calendar
// window [start, end) and maximum cloud cover, plus the two spectral bands
// and pixel scale every reduction runs at.
type Query struct {
	Collection  string  `json:"collection"`
	Region      Region  `json:"region"`
	StartDate   string  `json:"start_date"` // inclusive
	EndDate     string  `json:"end_date"`   // exclusive
	MaxCloudPct float64 `json:"max_cloud_pct"`
	BandNIR     string  `json:"band_nir"`
	BandRed     string  `json:"band_red"`
	Scale       int     `json:"scale"` // meters per pixel
}

// Reduction describes a statistic over the per-pixel median composite of
// the stack's normalized-difference index. When MaskBelow is set the
// statistic runs over the binary mask (index < threshold) instead of the
// index itself.
type Reduction struct {
	Statistic string   `json:"statistic"` // "mean"
	MaskBelow *float64 `json:"mask_below,omitempty"`
}

// Visualization describes a rendered thumbnail of the composite.
type Visualization struct {
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	Palette    []string `json:"palette,omitempty"`
	MaskBelow  *float64 `json:"mask_below,omitempty"`
	Dimensions int      `json:"dimensions"`
}

// Backend is the geospatial statistics capability the verification stage
// depends on. Implementations must be safe for concurrent use across
// distinct queries.
type Backend interface {
	// Count returns the number of images matching the query filters.
	Count(ctx context.Context, q Query) (int, error)

	// Reduce computes the requested statistic over the composite, clipped
	// to the query region.
	Reduce(ctx context.Context, q Query, r Reduction) (float64, error)

	// ThumbURL returns an externally hosted thumbnail of the composite.
	ThumbURL(ctx context.Context, q Query, v Visualization) (string, error)
}

// MeanReduction is the spatial mean of the composite index.
func MeanReduction() Reduction {
	return Reduction{Statistic: "mean"}
}

// MaskMeanReduction is the spatial mean of the binary degradation mask:
// the fraction of pixels below the threshold.
func MaskMeanReduction(threshold float64) Reduction {
	return Reduction{Statistic: "mean", MaskBelow: &threshold}
}

// String renders the region for logs.
func (r Region) String() string {
	return fmt.Sprintf("%.5f,%.5f±%.0fm", r.Lat, r.Lon, r.BufferMeters)
}
