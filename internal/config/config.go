package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "catalog"

// Export holds the options bundle of the export facility.
type Export struct {
	Command      string   `envconfig:"COMMAND"`
	PageSize     string   `split_words:"true" default:"a4"`
	Orientation  string   `default:"portrait"`
	MarginMM     []int    `envconfig:"MARGIN_MM" default:"10,10,10,10"`
	ImageQuality float64  `split_words:"true" default:"0.92"`
	Scale        float64  `default:"2"`
	PageBreak    []string `split_words:"true" default:"avoid-all,css,legacy"`
	Filename     string   `default:"B2B_Wholesale_Catalog.pdf"`
	StageDir     string   `split_words:"true"`
	BaseHref     string   `split_words:"true"`
}

// Config holds application configuration sourced from CATALOG_* environment variables.
type Config struct {
	Env        string        `envconfig:"ENV" default:"development"`
	Port       string        `default:"8080"`
	DataSource string        `split_words:"true" default:"dist/products.json"`
	StaticDir  string        `split_words:"true" default:"dist"`
	Debounce   time.Duration `default:"200ms"`
	Export     Export
}

// Load reads a local .env file if present, then the environment.
func Load() (Config, error) {
	// Best-effort: production injects real environment variables.
	_ = loadDotEnv(".env")

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment config: %w", err)
	}
	if len(cfg.Export.MarginMM) != 1 && len(cfg.Export.MarginMM) != 4 {
		return Config{}, fmt.Errorf("CATALOG_EXPORT_MARGIN_MM must have 1 or 4 values, got %d", len(cfg.Export.MarginMM))
	}
	if cfg.Debounce < 0 {
		return Config{}, fmt.Errorf("CATALOG_DEBOUNCE must not be negative")
	}

	return cfg, nil
}

// Environment returns the parsed deployment environment.
func (c Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

// IsDev reports whether the application runs in development.
func (c Config) IsDev() bool {
	return c.Environment() == Development
}

// Margins expands MarginMM into top, right, bottom, left.
func (e Export) Margins() [4]int {
	if len(e.MarginMM) == 1 {
		m := e.MarginMM[0]
		return [4]int{m, m, m, m}
	}
	var out [4]int
	copy(out[:], e.MarginMM)
	return out
}
