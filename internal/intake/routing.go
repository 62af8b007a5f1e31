package intake

import (
	"fmt"
	"os"
	"strings"

	"polleria_backend/internal/events"

	"gopkg.in/yaml.v3"
)

// RoutingRules decides which branch name fulfills an order from keyword
// heuristics over the message and the resolved item names.
type RoutingRules struct {
	FriedKeywords []string `yaml:"fried_keywords"`
	BulkKeywords  []string `yaml:"bulk_keywords"`
	FriedLocation string   `yaml:"fried_location"`
	BulkLocation  string   `yaml:"bulk_location"`
}

// DefaultRoutingRules returns the built-in keyword groups.
func DefaultRoutingRules() RoutingRules {
	return RoutingRules{
		FriedKeywords: []string{"pollo frito", "frito", "fritos"},
		BulkKeywords:  []string{"alitas", "muslo", "pierna", "pechuga", "mollejas"},
		FriedLocation: "Pollo Frito",
		BulkLocation:  "Pollo a Granel",
	}
}

// LoadRoutingRules reads keyword overrides from a YAML file. Missing fields
// keep their defaults; an empty path returns the defaults unchanged.
func LoadRoutingRules(path string) (RoutingRules, error) {
	rules := DefaultRoutingRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read routing rules: %w", err)
	}

	var overrides RoutingRules
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return rules, fmt.Errorf("parse routing rules: %w", err)
	}

	if len(overrides.FriedKeywords) > 0 {
		rules.FriedKeywords = overrides.FriedKeywords
	}
	if len(overrides.BulkKeywords) > 0 {
		rules.BulkKeywords = overrides.BulkKeywords
	}
	if overrides.FriedLocation != "" {
		rules.FriedLocation = overrides.FriedLocation
	}
	if overrides.BulkLocation != "" {
		rules.BulkLocation = overrides.BulkLocation
	}
	return rules, nil
}

// Route returns the branch name for the order. The bulk branch is also the
// default when neither keyword group matches; ambiguity never errors.
func (r RoutingRules) Route(message string, lines []events.OrderLine) string {
	haystack := strings.ToLower(message)
	for _, line := range lines {
		haystack += " " + strings.ToLower(line.Name)
	}

	for _, keyword := range r.FriedKeywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return r.FriedLocation
		}
	}
	for _, keyword := range r.BulkKeywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return r.BulkLocation
		}
	}
	return r.BulkLocation
}
