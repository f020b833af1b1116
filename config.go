package lectito

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the configuration record spec.md §3 defines: the enumerated
// knobs the core recognizes. Configured via functional options, matching
// the teacher's ExtractionOptions/Option pattern (readability.go).
type Config struct {
	// MinScore rejects the top candidate if its score falls below this.
	MinScore float64
	// CharThreshold rejects the output if its text length falls below this.
	CharThreshold int
	// MaxTopCandidates bounds how many candidates the scorer retains.
	MaxTopCandidates int
	// MinContentLength is carried in the record (and loaded by LoadConfig),
	// but no pipeline stage reads it: unlikely-candidate removal does not
	// depend on text length.
	MinContentLength int
	// PreserveImages keeps <img>, <picture>, <figure> in the cleaned output.
	PreserveImages bool
	// BaseURL resolves relative links during cleanup; nil leaves them untouched.
	BaseURL *url.URL
	// ScoreHoistThreshold is the fraction a parent's score may fall below the
	// top candidate's score and still be hoisted into (spec.md §9 Open
	// Question 1, pinned at 0.25 by the original implementation).
	ScoreHoistThreshold float64
	// SiblingScoreFraction is the fraction of the top candidate's score a
	// sibling needs to qualify for inclusion (spec.md §4.4 step 3).
	SiblingScoreFraction float64
	// SiblingScoreFloor is the absolute floor backing sib_threshold's max().
	SiblingScoreFloor float64
	// KeepClassAndID retains class/id attributes through cleanup instead of
	// dropping them (spec.md §4.5 default: drop).
	KeepClassAndID bool
}

// DefaultConfig returns the configuration record with every default spec.md
// §3 and §9 specify.
func DefaultConfig() Config {
	return Config{
		MinScore:             20.0,
		CharThreshold:        500,
		MaxTopCandidates:     5,
		MinContentLength:     140,
		PreserveImages:       true,
		ScoreHoistThreshold:  0.25,
		SiblingScoreFraction: 0.2,
		SiblingScoreFloor:    10,
		KeepClassAndID:       false,
	}
}

// Option configures a Config in place.
type Option func(*Config)

func WithMinScore(v float64) Option             { return func(c *Config) { c.MinScore = v } }
func WithCharThreshold(v int) Option            { return func(c *Config) { c.CharThreshold = v } }
func WithMaxTopCandidates(v int) Option         { return func(c *Config) { c.MaxTopCandidates = v } }
func WithMinContentLength(v int) Option         { return func(c *Config) { c.MinContentLength = v } }
func WithPreserveImages(v bool) Option          { return func(c *Config) { c.PreserveImages = v } }
func WithBaseURL(u *url.URL) Option             { return func(c *Config) { c.BaseURL = u } }
func WithScoreHoistThreshold(v float64) Option  { return func(c *Config) { c.ScoreHoistThreshold = v } }
func WithSiblingScoreFraction(v float64) Option { return func(c *Config) { c.SiblingScoreFraction = v } }
func WithSiblingScoreFloor(v float64) Option    { return func(c *Config) { c.SiblingScoreFloor = v } }
func WithKeepClassAndID(v bool) Option          { return func(c *Config) { c.KeepClassAndID = v } }

// NewConfig builds a Config from DefaultConfig with the given options applied.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// fileConfig mirrors Config for YAML decoding. Config.BaseURL is a
// *url.URL, which yaml.v3 has no marshaler for, so the file schema carries
// it as a plain string and LoadConfig parses it afterward. Pointer fields
// distinguish "absent from the file" from "explicitly zero", so only
// fields actually present overlay DefaultConfig.
type fileConfig struct {
	MinScore             *float64 `yaml:"minScore"`
	CharThreshold        *int     `yaml:"charThreshold"`
	MaxTopCandidates     *int     `yaml:"maxTopCandidates"`
	MinContentLength     *int     `yaml:"minContentLength"`
	PreserveImages       *bool    `yaml:"preserveImages"`
	BaseURL              string   `yaml:"baseURL"`
	ScoreHoistThreshold  *float64 `yaml:"scoreHoistThreshold"`
	SiblingScoreFraction *float64 `yaml:"siblingScoreFraction"`
	SiblingScoreFloor    *float64 `yaml:"siblingScoreFloor"`
	KeepClassAndID       *bool    `yaml:"keepClassAndID"`
}

// LoadConfig reads a YAML configuration file and overlays its values onto
// DefaultConfig; fields absent from the file keep their default, the same
// overlay-onto-defaults approach the teacher's config-file loaders use.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return cfg, fmt.Errorf("lectito: parse config %s: %w", path, err)
	}

	if fc.MinScore != nil {
		cfg.MinScore = *fc.MinScore
	}
	if fc.CharThreshold != nil {
		cfg.CharThreshold = *fc.CharThreshold
	}
	if fc.MaxTopCandidates != nil {
		cfg.MaxTopCandidates = *fc.MaxTopCandidates
	}
	if fc.MinContentLength != nil {
		cfg.MinContentLength = *fc.MinContentLength
	}
	if fc.PreserveImages != nil {
		cfg.PreserveImages = *fc.PreserveImages
	}
	if fc.ScoreHoistThreshold != nil {
		cfg.ScoreHoistThreshold = *fc.ScoreHoistThreshold
	}
	if fc.SiblingScoreFraction != nil {
		cfg.SiblingScoreFraction = *fc.SiblingScoreFraction
	}
	if fc.SiblingScoreFloor != nil {
		cfg.SiblingScoreFloor = *fc.SiblingScoreFloor
	}
	if fc.KeepClassAndID != nil {
		cfg.KeepClassAndID = *fc.KeepClassAndID
	}
	if fc.BaseURL != "" {
		u, err := url.Parse(fc.BaseURL)
		if err != nil {
			return cfg, fmt.Errorf("lectito: parse baseURL %q: %w", fc.BaseURL, err)
		}
		cfg.BaseURL = u
	}

	return cfg, nil
}
