package orbital

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestRotations(t *testing.T) {
	x := []float64{1, 0, 0}
	// R3 by a quarter turn sends x to -y when rotating the frame, so the
	// inverse rotation sends x to +y.
	if !vectorsEqual(MxV33(R3(-math.Pi/2), x), []float64{0, 1, 0}) {
		t.Fatal("R3(-π/2) broken")
	}
	if !vectorsEqual(MxV33(R1(-math.Pi/2), []float64{0, 1, 0}), []float64{0, 0, 1}) {
		t.Fatal("R1(-π/2) broken")
	}
	// Identity for zero angles.
	v := []float64{1, 2, 3}
	if !vectorsEqual(PQW2ECI(0, 0, 0, v), v) {
		t.Fatal("PQW2ECI(0,0,0) must be the identity")
	}
	// Pure argument of periapsis rotation stays in plane.
	out := PQW2ECI(0, math.Pi/2, 0, x)
	if !vectorsEqual(out, []float64{0, 1, 0}) {
		t.Fatalf("PQW2ECI ω=π/2 gave %+v", out)
	}
	// A rotation never changes the norm.
	for i := 0.0; i < math.Pi; i += 0.3 {
		for ω := 0.0; ω < 2*math.Pi; ω += 0.7 {
			got := PQW2ECI(i, ω, ω/2, v)
			if !floats.EqualWithinAbs(norm(got), norm(v), 1e-12) {
				t.Fatalf("norm changed for i=%f ω=%f", i, ω)
			}
		}
	}
	// A polar orbit maps the in-plane y axis onto z.
	out = PQW2ECI(math.Pi/2, 0, 0, []float64{0, 1, 0})
	if !vectorsEqual(out, []float64{0, 0, 1}) {
		t.Fatalf("polar rotation gave %+v", out)
	}
}
