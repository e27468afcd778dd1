package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/internalerr"
)

// Environment variables that override the file.
const (
	EnvStorePath = "CONSULT_STORE_PATH"
	EnvLogLevel  = "CONSULT_LOG_LEVEL"
	EnvWorkers   = "CONSULT_WORKERS"
)

// Store drivers.
const (
	DriverNone   = ""
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the YAML configuration of an analysis run.
type Config struct {
	Analysis   Analysis   `yaml:"analysis"`
	Vocabulary Vocabulary `yaml:"vocabulary"`
	Store      Store      `yaml:"store"`
	Log        Log        `yaml:"log"`
}

// Analysis tunes the pipeline.
type Analysis struct {
	Workers               int     `yaml:"workers"`
	KeywordCount          int     `yaml:"keyword_count"`
	ThemeCount            int     `yaml:"theme_count"`
	ExcerptWords          int     `yaml:"excerpt_words"`
	SubstitutionWarnRatio float64 `yaml:"substitution_warn_ratio"`
	Markup                string  `yaml:"markup"`
}

// Vocabulary extends the built-in word lists.
type Vocabulary struct {
	DomainTerms    []string            `yaml:"domain_terms"`
	Stopwords      []string            `yaml:"stopwords"`
	SubmitterTypes map[string][]string `yaml:"submitter_types"`
}

// Store selects where completed runs are archived.
type Store struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Log configures the console logger.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration. Workers 0 means one per CPU.
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			KeywordCount:          10,
			ThemeCount:            10,
			ExcerptWords:          100,
			SubstitutionWarnRatio: 0.25,
			Markup:                string(ingest.MarkupPlain),
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment. Empty names and
// missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := gotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.Store.Path = v
		if c.Store.Driver == DriverNone {
			c.Store.Driver = DriverSQLite
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", internalerr.ErrInvalidConfig, EnvWorkers, v)
		}
		c.Analysis.Workers = n
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	a := c.Analysis
	if a.Workers < 0 {
		problems = append(problems, "analysis.workers must not be negative")
	}
	if a.KeywordCount < 1 {
		problems = append(problems, "analysis.keyword_count must be positive")
	}
	if a.ThemeCount < 1 {
		problems = append(problems, "analysis.theme_count must be positive")
	}
	if a.ExcerptWords < 1 {
		problems = append(problems, "analysis.excerpt_words must be positive")
	}
	if a.SubstitutionWarnRatio < 0 || a.SubstitutionWarnRatio > 1 {
		problems = append(problems, "analysis.substitution_warn_ratio must be within [0,1]")
	}
	if _, err := ingest.ParseMarkup(a.Markup); err != nil {
		problems = append(problems, "analysis.markup: "+err.Error())
	}

	switch c.Store.Driver {
	case DriverNone, DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
