package packing

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

type Rules struct {
	TripTypes    []NamedItems   `yaml:"trip_types"`
	DefaultItems []string       `yaml:"default_items"`
	Activities   []NamedItems   `yaml:"activities"`
	Packs        []Pack         `yaml:"packs"`
	Weather      WeatherRules   `yaml:"weather"`
	Duration     []DurationRule `yaml:"duration"`
}

type NamedItems struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// Pack is a packing preference. A positive Limit truncates the list built
// so far; Items are appended after truncation.
type Pack struct {
	Name  string   `yaml:"name"`
	Limit int      `yaml:"limit"`
	Items []string `yaml:"items"`
}

// WeatherRules thresholds are in degrees Celsius and compared strictly.
type WeatherRules struct {
	ColdBelow float64  `yaml:"cold_below"`
	ColdItems []string `yaml:"cold_items"`
	HotAbove  float64  `yaml:"hot_above"`
	HotItems  []string `yaml:"hot_items"`
}

type DurationRule struct {
	MinDays int      `yaml:"min_days"`
	Items   []string `yaml:"items"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("packing: built-in rules: %v", err))
	}
	return r
}

// LoadRules reads a rule table from a YAML file. An empty path returns the built-in table.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) check() error {
	if len(r.TripTypes) == 0 {
		return fmt.Errorf("rules: no trip types")
	}
	if r.Weather.ColdBelow > r.Weather.HotAbove {
		return fmt.Errorf("rules: cold_below %.1f above hot_above %.1f", r.Weather.ColdBelow, r.Weather.HotAbove)
	}
	sections := map[string][]string{
		"trip type": names(r.TripTypes),
		"activity":  names(r.Activities),
	}
	for _, p := range r.Packs {
		sections["pack"] = append(sections["pack"], p.Name)
		if p.Limit < 0 {
			return fmt.Errorf("rules: pack %q has negative limit", p.Name)
		}
	}
	for kind, list := range sections {
		seen := make(map[string]bool, len(list))
		for _, n := range list {
			key := strings.ToLower(strings.TrimSpace(n))
			if key == "" {
				return fmt.Errorf("rules: empty %s name", kind)
			}
			if seen[key] {
				return fmt.Errorf("rules: duplicate %s %q", kind, n)
			}
			seen[key] = true
		}
	}
	for _, d := range r.Duration {
		if d.MinDays < 1 {
			return fmt.Errorf("rules: duration rule min_days must be positive")
		}
	}
	return nil
}

func names(list []NamedItems) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Name
	}
	return out
}
