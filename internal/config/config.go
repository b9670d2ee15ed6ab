// Package config loads the YAML collection catalog: sample specs,
// global limits, output settings, and file-finder locations/rules.
// Grounded on the teacher's config package convention of a single
// top-level struct unmarshaled straight from YAML via gopkg.in/yaml.v3,
// with defaulting applied after Load rather than through struct tags.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"www.velocidex.com/golang/getthis/internal/model"
)

// SampleConfig is one entry of the YAML "samples" list: the rule name,
// the YARA terms it groups, the content transform to apply, and this
// rule's own quota.
type SampleConfig struct {
	Name      string      `yaml:"name"`
	Terms     []string    `yaml:"terms"`
	Content   string      `yaml:"content"`   // "data", "strings", or "raw"
	MinChars  int         `yaml:"min_chars"`
	MaxChars  int         `yaml:"max_chars"`
	Limits    LimitsConfig `yaml:"limits"`
}

// LimitsConfig is the YAML shape of model.Limits, using 0 to mean
// "unlimited" so the catalog author never has to spell out a sentinel.
type LimitsConfig struct {
	MaxSampleCount    uint64 `yaml:"max_sample_count"`
	MaxBytesPerSample uint64 `yaml:"max_bytes_per_sample"`
	MaxBytesTotal     uint64 `yaml:"max_bytes_total"`
	IgnoreLimits      bool   `yaml:"ignore_limits"`
}

// OutputConfig selects Archive or Directory output.
type OutputConfig struct {
	Archive          string `yaml:"archive"`
	Directory        string `yaml:"directory"`
	Password         string `yaml:"password"`
	CompressionLevel int    `yaml:"compression_level"`
	LogPath          string `yaml:"log_path"`
	ReportAll        bool   `yaml:"report_all"`
}

// LocationConfig names one filesystem root the file finder should scan.
type LocationConfig struct {
	Path string `yaml:"path"`
}

// Catalog is the full run configuration: every sample rule, the global
// quota, output settings, YARA rule files, and scan locations.
type Catalog struct {
	Samples       []SampleConfig   `yaml:"samples"`
	Global        LimitsConfig     `yaml:"global_limits"`
	Output        OutputConfig     `yaml:"output"`
	YaraRules     []string         `yaml:"yara_rules"`
	Locations     []LocationConfig `yaml:"locations"`
	FlushRegistry bool             `yaml:"flush_registry"`
}

// Load reads and parses path into a Catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ToLimits converts c to a model.Limits, mapping a zero YAML value to
// model.Unlimited so an omitted field never silently caps a run at
// zero samples or zero bytes.
func (c LimitsConfig) ToLimits() *model.Limits {
	l := &model.Limits{IgnoreLimits: c.IgnoreLimits}

	l.MaxSampleCount = model.Unlimited
	if c.MaxSampleCount != 0 {
		l.MaxSampleCount = c.MaxSampleCount
	}
	l.MaxBytesPerSample = model.Unlimited
	if c.MaxBytesPerSample != 0 {
		l.MaxBytesPerSample = c.MaxBytesPerSample
	}
	l.MaxBytesTotal = model.Unlimited
	if c.MaxBytesTotal != 0 {
		l.MaxBytesTotal = c.MaxBytesTotal
	}
	return l
}

// ToContentSpec converts c's content fields to a model.ContentSpec.
func (c SampleConfig) ToContentSpec() model.ContentSpec {
	spec := model.ContentSpec{MinChars: c.MinChars, MaxChars: c.MaxChars}
	switch c.Content {
	case "strings":
		spec.Type = model.ContentStrings
	case "raw":
		spec.Type = model.ContentRaw
	default:
		spec.Type = model.ContentData
	}
	return spec
}
