package orbital

import (
	"bytes"
	"math"
	"testing"

	kitlog "github.com/go-kit/kit/log"
)

func copyScenarios(sc []Scenario) []Scenario {
	out := make([]Scenario, len(sc))
	for i, s := range sc {
		out[i] = Scenario{Name: s.Name, RelTol: s.RelTol,
			Inputs:  make(map[string]float64, len(s.Inputs)),
			Outputs: make(map[string]float64, len(s.Outputs))}
		for k, v := range s.Inputs {
			out[i].Inputs[k] = v
		}
		for k, v := range s.Outputs {
			out[i].Outputs[k] = v
		}
	}
	return out
}

func TestReferenceScenarioBattery(t *testing.T) {
	sc := ReferenceScenarios()
	if len(sc) < 20 {
		t.Fatalf("only %d scenarios in the battery", len(sc))
	}
	seen := make(map[string]bool, len(sc))
	for _, s := range sc {
		if s.Name == "" {
			t.Fatal("unnamed scenario")
		}
		if seen[s.Name] {
			t.Fatalf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
		if len(s.Outputs) == 0 {
			t.Fatalf("%s has no outputs", s.Name)
		}
		for out, val := range s.Outputs {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				t.Fatalf("%s/%s = %v", s.Name, out, val)
			}
		}
	}
	t.Logf("[OK] %d scenarios", len(sc))
}

func TestCompareSelf(t *testing.T) {
	sc := ReferenceScenarios()
	if mismatches := Compare(sc, sc, 0); len(mismatches) > 0 {
		t.Fatalf("self comparison failed: %s", mismatches[0])
	}
}

// A wrong sign in a single analytic function must trip the harness.
func TestCompareSensitivity(t *testing.T) {
	ref := ReferenceScenarios()
	for _, target := range []struct{ scenario, output string }{
		{"hohmann_earth_mars", "dv1_km_s"},
		{"mean_motion_earth", "n_rad_s"},
		{"kepler_vallado_e04", "eccentric_anomaly_rad"},
	} {
		alt := copyScenarios(ref)
		flipped := false
		for i := range alt {
			if alt[i].Name == target.scenario {
				alt[i].Outputs[target.output] = -alt[i].Outputs[target.output]
				flipped = true
			}
		}
		if !flipped {
			t.Fatalf("scenario %q missing from the battery", target.scenario)
		}
		mismatches := Compare(ref, alt, 0)
		if len(mismatches) == 0 {
			t.Fatalf("sign error in %s/%s went unnoticed", target.scenario, target.output)
		}
		found := false
		for _, m := range mismatches {
			if m.Scenario == target.scenario && m.Output == target.output {
				found = true
			}
		}
		if !found {
			t.Fatalf("mismatch does not name %s/%s: %s", target.scenario, target.output, mismatches[0])
		}
	}
}

func TestCompareMissing(t *testing.T) {
	ref := ReferenceScenarios()
	mismatches := Compare(ref, ref[1:], 0)
	if len(mismatches) != len(ref[0].Outputs) {
		t.Fatalf("expected %d mismatches for the missing scenario, got %d", len(ref[0].Outputs), len(mismatches))
	}
	for _, m := range mismatches {
		if m.Scenario != ref[0].Name || !math.IsNaN(m.Got) {
			t.Fatalf("unexpected mismatch %s", m)
		}
	}
	// A missing output is as fatal as a missing scenario.
	alt := copyScenarios(ref)
	delete(alt[0].Outputs, firstKey(alt[0].Outputs))
	if len(Compare(ref, alt, 0)) == 0 {
		t.Fatal("dropped output went unnoticed")
	}
}

func firstKey(m map[string]float64) string {
	for k := range m {
		return k
	}
	return ""
}

func TestScenarioRoundTrip(t *testing.T) {
	ref := ReferenceScenarios()
	var buf bytes.Buffer
	if err := WriteScenarios(&buf, ref); err != nil {
		t.Fatal(err)
	}
	back, err := ReadScenarios(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(ref) {
		t.Fatalf("%d scenarios in, %d out", len(ref), len(back))
	}
	if mismatches := Compare(ref, back, 0); len(mismatches) > 0 {
		t.Fatalf("JSON round trip lost precision: %s", mismatches[0])
	}
	if _, err := ReadScenarios(bytes.NewReader([]byte("not json"))); err == nil {
		t.Fatal("garbage input must be rejected")
	}
}

func TestValidate(t *testing.T) {
	ref := ReferenceScenarios()
	logger := kitlog.NewNopLogger()
	if err := Validate(ref, ref, 0, logger); err != nil {
		t.Fatalf("self validation failed: %s", err)
	}
	alt := copyScenarios(ref)
	for i := range alt {
		if alt[i].Name == "period_leo" {
			alt[i].Outputs["period_s"] *= 1.01
		}
	}
	if err := Validate(ref, alt, 0, logger); err == nil {
		t.Fatal("a one percent period error must fail validation")
	}
}
