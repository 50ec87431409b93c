package model

import "testing"

func TestCoordinates_CommaSeparated(t *testing.T) {
	f := ExtractedFields{GPS: Field{Value: "61.5, 24.3"}}
	lat, lon := f.Coordinates()
	if lat != "61.5" || lon != "24.3" {
		t.Errorf("Expected (61.5, 24.3), got (%s, %s)", lat, lon)
	}
}

func TestCoordinates_SpaceSeparated(t *testing.T) {
	f := ExtractedFields{GPS: Field{Value: "-10.1  -55.2"}}
	lat, lon := f.Coordinates()
	if lat != "-10.1" || lon != "-55.2" {
		t.Errorf("Expected (-10.1, -55.2), got (%s, %s)", lat, lon)
	}
}

func TestCoordinates_NotProvided(t *testing.T) {
	cases := []string{"", NotProvided, "61.5"}
	for _, raw := range cases {
		f := ExtractedFields{GPS: Field{Value: raw}}
		lat, lon := f.Coordinates()
		if lat != NotProvided || lon != NotProvided {
			t.Errorf("GPS %q: expected sentinel pair, got (%s, %s)", raw, lat, lon)
		}
	}
}

func TestHighlightTargets(t *testing.T) {
	f := ExtractedFields{
		GPS:    Field{Value: "61.51234, 24.30011"},
		NDVI:   Field{Value: "0.75"},
		Margin: Field{Value: "5.0"},
	}
	targets := f.HighlightTargets()
	if len(targets) != 4 {
		t.Fatalf("Expected 4 targets, got %d: %v", len(targets), targets)
	}
	if targets[0] != "0.75" || targets[1] != "5.0" {
		t.Errorf("Expected value targets first, got %v", targets)
	}
}

func TestHighlightTargets_SkipsSentinels(t *testing.T) {
	f := ExtractedFields{
		GPS:    Field{Value: NotProvided},
		NDVI:   Field{Value: "None"},
		Margin: Field{Value: "2.5"},
	}
	targets := f.HighlightTargets()
	if len(targets) != 1 || targets[0] != "2.5" {
		t.Errorf("Expected only the margin value, got %v", targets)
	}
}

func TestBreachPercentage_Rounds(t *testing.T) {
	r := VerificationResult{BreachFraction: 0.101264}
	if got := r.BreachPercentage(); got != 10.13 {
		t.Errorf("Expected 10.13, got %v", got)
	}
}
