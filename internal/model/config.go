package model

import "time"

// Config holds the full runtime configuration.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	LLM         LLMConfig         `yaml:"llm"`
	Imagery     ImageryConfig     `yaml:"imagery"`
	Settlement  SettlementConfig  `yaml:"settlement"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// StorageConfig controls where artifacts land on disk.
type StorageConfig struct {
	StaticDir  string `yaml:"static_dir"`  // masked artifacts, evidence images
	ReportsDir string `yaml:"reports_dir"` // sealed audit reports
}

// LLMConfig configures the reasoning backend.
type LLMConfig struct {
	Provider  string        `yaml:"provider"` // "gemini", "openai"
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"-"` // env only, never written to disk
	BaseURL   string        `yaml:"base_url,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// ImageryConfig configures the geospatial imagery backend and the fixed
// query parameters of the verification stage.
type ImageryConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Collection   string        `yaml:"collection"`
	StartDate    string        `yaml:"start_date"` // calendar date, inclusive
	EndDate      string        `yaml:"end_date"`   // calendar date, exclusive
	MaxCloudPct  float64       `yaml:"max_cloud_pct"`
	BufferMeters float64       `yaml:"buffer_meters"` // ROI half-width
	Scale        int           `yaml:"scale"`         // pixel scale in meters
	BandNIR      string        `yaml:"band_nir"`
	BandRed      string        `yaml:"band_red"`
	Degradation  float64       `yaml:"degradation_threshold"`
	ThumbSize    int           `yaml:"thumb_size"`
	Timeout      time.Duration `yaml:"timeout"`

	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// SettlementConfig holds the financial constants of the margin ratchet.
type SettlementConfig struct {
	BaseMarginBps  float64 `yaml:"base_margin_bps"`
	PortfolioValue float64 `yaml:"portfolio_value"`
}

// CacheConfig controls the imagery response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig controls batch audit parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the defaults the original covenant schedule assumes:
// Sentinel-2 surface reflectance, a 1km square site polygon, a fixed audit
// window, 150 bps base margin against a 100M reference portfolio.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			StaticDir:  "static",
			ReportsDir: "reports",
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.5-flash",
			Timeout:   60 * time.Second,
			MaxTokens: 1000,
		},
		Imagery: ImageryConfig{
			Collection:   "COPERNICUS/S2_SR_HARMONIZED",
			StartDate:    "2025-09-01",
			EndDate:      "2026-01-01",
			MaxCloudPct:  20,
			BufferMeters: 500,
			Scale:        10,
			BandNIR:      "B8",
			BandRed:      "B4",
			Degradation:  0.2,
			ThumbSize:    512,
			Timeout:      90 * time.Second,

			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Settlement: SettlementConfig{
			BaseMarginBps:  150,
			PortfolioValue: 100_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".sentinel-cache",
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
