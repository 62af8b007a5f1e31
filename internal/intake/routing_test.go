package intake

import (
	"os"
	"path/filepath"
	"testing"

	"polleria_backend/internal/events"
)

func TestRouteFriedKeywordInMessage(t *testing.T) {
	rules := DefaultRoutingRules()
	if got := rules.Route("quiero 2 pollos fritos", nil); got != "Pollo Frito" {
		t.Fatalf("routed to %q", got)
	}
}

func TestRouteFriedKeywordInResolvedName(t *testing.T) {
	rules := DefaultRoutingRules()
	lines := []events.OrderLine{{Name: "Pollo Frito", Quantity: 1}}
	if got := rules.Route("lo de siempre", lines); got != "Pollo Frito" {
		t.Fatalf("routed to %q", got)
	}
}

func TestRouteBulkKeyword(t *testing.T) {
	rules := DefaultRoutingRules()
	if got := rules.Route("mandame un kilo de alitas", nil); got != "Pollo a Granel" {
		t.Fatalf("routed to %q", got)
	}
}

func TestRouteBulkKeywordOverride(t *testing.T) {
	rules := RoutingRules{
		FriedKeywords: []string{"frito"},
		BulkKeywords:  []string{"retazo"},
		FriedLocation: "Sucursal Centro",
		BulkLocation:  "Sucursal Norte",
	}
	if got := rules.Route("dos kilos de retazo", nil); got != "Sucursal Norte" {
		t.Fatalf("overridden bulk keyword routed to %q", got)
	}
	// Fried keywords take priority when both groups match.
	if got := rules.Route("retazo y pollo frito", nil); got != "Sucursal Centro" {
		t.Fatalf("fried priority lost: %q", got)
	}
}

func TestRouteDefaultsToBulk(t *testing.T) {
	rules := DefaultRoutingRules()
	if got := rules.Route("un pedido de lo habitual", nil); got != "Pollo a Granel" {
		t.Fatalf("unmatched message must route to bulk, got %q", got)
	}
}

func TestLoadRoutingRulesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "fried_keywords: [\"empanizado\"]\nfried_location: \"Sucursal Centro\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRoutingRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if got := rules.Route("quiero pollo empanizado", nil); got != "Sucursal Centro" {
		t.Fatalf("override keyword routed to %q", got)
	}
	// Untouched fields keep their defaults.
	if got := rules.Route("un kilo de mollejas", nil); got != "Pollo a Granel" {
		t.Fatalf("default bulk lost: %q", got)
	}
}

func TestLoadRoutingRulesEmptyPath(t *testing.T) {
	rules, err := LoadRoutingRules("")
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if len(rules.FriedKeywords) == 0 {
		t.Fatal("defaults missing")
	}
}

func TestLoadRoutingRulesMissingFile(t *testing.T) {
	rules, err := LoadRoutingRules("/nonexistent/rules.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	// Defaults still returned so the caller can proceed.
	if rules.BulkLocation != "Pollo a Granel" {
		t.Fatalf("defaults not preserved: %+v", rules)
	}
}
