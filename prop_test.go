package orbital

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestPropagationValidation(t *testing.T) {
	s := CircularState(Earth.GM(), LEORadius)
	if _, err := NewPropagationWithGM(s, -1, Coast{}, 10, 100); err == nil {
		t.Fatal("negative μ must be rejected")
	}
	if _, err := NewPropagationWithGM(s, Earth.GM(), Coast{}, 0, 100); err == nil {
		t.Fatal("zero step must be rejected")
	}
	if _, err := NewPropagationWithGM(s, Earth.GM(), Coast{}, 10, -5); err == nil {
		t.Fatal("negative horizon must be rejected")
	}
	// A nil profile coasts.
	prop, err := NewPropagation(s, Earth, nil, 10, 100)
	if err != nil {
		t.Fatal(err)
	}
	if prop.profile.Type() != coastThrust {
		t.Fatal("nil profile should default to coasting")
	}
	if err := prop.PropagateAdaptive(0, 1e-9); err == nil {
		t.Fatal("zero tolerance must be rejected")
	}
}

func TestThrustTypeString(t *testing.T) {
	for profile, exp := range map[ThrustProfile]string{
		Coast{}:               "coast",
		ConstantPrograde{1}:   "prograde",
		Brachistochrone{1, 1}: "brachistochrone",
	} {
		if profile.Type().String() != exp {
			t.Fatalf("%T stringer broken", profile)
		}
	}
	assertPanic(t, "unknown thrust type", func() { _ = ThrustType(99).String() })
}

func TestEnergyConservation(t *testing.T) {
	for _, c := range []struct {
		name  string
		state State
		step  Seconds
		a     Distance
		bound float64
	}{
		{"leo circular", CircularState(Earth.GM(), LEORadius), 1, LEORadius, 1e-10},
		{"e=0.5", PeriapsisState(Earth.GM(), 26600, 0.5), 5, 26600, 1e-9},
		{"e=0.9", PeriapsisState(Earth.GM(), 26600, 0.9), 1, 26600, 1e-7},
	} {
		period := Period(Earth.GM(), c.a)
		prop, err := NewPropagationWithGM(c.state, Earth.GM(), Coast{}, c.step, period)
		if err != nil {
			t.Fatal(err)
		}
		prop.Propagate()
		maxDrift, finalDrift := prop.EnergyDrift()
		if maxDrift > c.bound {
			t.Fatalf("%s: max energy drift %e over one period (dt=%f)", c.name, maxDrift, float64(c.step))
		}
		if finalDrift > maxDrift {
			t.Fatalf("%s: final drift %e above max %e", c.name, finalDrift, maxDrift)
		}
		t.Logf("[OK] %s: max drift %e", c.name, maxDrift)
	}
}

// Halving the step of a fourth order scheme must cut the energy drift by
// roughly 2^4.
func TestRK4Convergence(t *testing.T) {
	period := Period(Earth.GM(), LEORadius)
	drift := func(step Seconds) float64 {
		prop, err := NewPropagationWithGM(CircularState(Earth.GM(), LEORadius), Earth.GM(), Coast{}, step, period)
		if err != nil {
			t.Fatal(err)
		}
		prop.Propagate()
		maxDrift, _ := prop.EnergyDrift()
		return maxDrift
	}
	coarse, fine := drift(60), drift(30)
	if coarse/fine < 8 {
		t.Fatalf("drift ratio %f, not fourth order (%e vs %e)", coarse/fine, coarse, fine)
	}
}

func TestFinalStepShortened(t *testing.T) {
	prop, err := NewPropagationWithGM(CircularState(Earth.GM(), LEORadius), Earth.GM(), Coast{}, 10, 25)
	if err != nil {
		t.Fatal(err)
	}
	prop.Propagate()
	if prop.Elapsed() != 25 {
		t.Fatalf("elapsed = %f, horizon must be hit exactly", float64(prop.Elapsed()))
	}
	if prop.Stats().Steps != 3 {
		t.Fatalf("steps = %d, expected two full and one shortened", prop.Stats().Steps)
	}
}

func TestSampling(t *testing.T) {
	prop, err := NewPropagationWithGM(CircularState(Earth.GM(), LEORadius), Earth.GM(), Coast{}, 10, 100)
	if err != nil {
		t.Fatal(err)
	}
	prop.SampleEvery(2)
	prop.Propagate()
	samples := prop.Samples()
	if len(samples) != 6 {
		t.Fatalf("got %d samples", len(samples))
	}
	if samples[0].T != 0 {
		t.Fatal("the initial state must be sampled")
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].T <= samples[i-1].T {
			t.Fatal("sample times must increase")
		}
	}
	if samples[len(samples)-1].T != prop.Elapsed() {
		t.Fatalf("last sample at %f, elapsed %f", float64(samples[len(samples)-1].T), float64(prop.Elapsed()))
	}
}

func TestAdaptivePropagation(t *testing.T) {
	period := Period(Earth.GM(), LEORadius)
	fixed, err := NewPropagationWithGM(CircularState(Earth.GM(), LEORadius), Earth.GM(), Coast{}, 1, period)
	if err != nil {
		t.Fatal(err)
	}
	fixed.Propagate()

	adaptive, err := NewPropagationWithGM(CircularState(Earth.GM(), LEORadius), Earth.GM(), Coast{}, 1, period)
	if err != nil {
		t.Fatal(err)
	}
	if err := adaptive.PropagateAdaptive(1e-10, 1e-12); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(float64(adaptive.Elapsed()), float64(period), 1e-6) {
		t.Fatalf("elapsed = %f of %f", float64(adaptive.Elapsed()), float64(period))
	}
	maxDrift, _ := adaptive.EnergyDrift()
	if maxDrift > 1e-8 {
		t.Fatalf("adaptive energy drift %e", maxDrift)
	}
	// After one period the orbit closes.
	if !floats.EqualWithinAbs(float64(adaptive.State().R.Norm()), float64(LEORadius), 1) {
		t.Fatalf("|R| = %f after one period", float64(adaptive.State().R.Norm()))
	}
	// The step controller must beat the one second fixed grid by a wide
	// margin.
	if adaptive.Stats().Evals*2 >= fixed.Stats().Evals {
		t.Fatalf("adaptive used %d evals, fixed %d", adaptive.Stats().Evals, fixed.Stats().Evals)
	}
	t.Logf("[OK] adaptive: %d steps, %d rejected, %d evals", adaptive.Stats().Steps, adaptive.Stats().Rejected, adaptive.Stats().Evals)
}

func TestProgradeThrustRaisesEnergy(t *testing.T) {
	initial := CircularState(Earth.GM(), LEORadius)
	prop, err := NewPropagation(initial, Earth, ConstantPrograde{Accel: 1e-5}, 10, 1000)
	if err != nil {
		t.Fatal(err)
	}
	ξ0 := prop.specificEnergy(initial)
	prop.Propagate()
	if ξ := prop.specificEnergy(prop.State()); ξ <= ξ0 {
		t.Fatalf("prograde thrust lowered the energy: %f -> %f", ξ0, ξ)
	}
}

// A flip and burn in a negligible gravity field must return to the initial
// speed and cover v0*T + a*T²/4.
func TestBrachistochroneProfile(t *testing.T) {
	const (
		v0    = 0.01 // km/s
		accel = 1e-3 // km/s²
		T     = 1000 // s
	)
	initial := State{Vec3[Distance]{1e6, 0, 0}, Vec3[Velocity]{v0, 0, 0}}
	profile := Brachistochrone{Accel: accel, FlipTime: T / 2}
	prop, err := NewPropagationWithGM(initial, 1e-6, profile, 0.05, T)
	if err != nil {
		t.Fatal(err)
	}
	prop.Propagate()
	final := prop.State()
	if !floats.EqualWithinAbs(float64(final.V.Norm()), v0, 1e-4) {
		t.Fatalf("final speed = %f", float64(final.V.Norm()))
	}
	expected := v0*T + accel*T*T/4
	if !floats.EqualWithinAbs(float64(final.R.X-initial.R.X), expected, 0.05) {
		t.Fatalf("covered %f km, expected %f", float64(final.R.X-initial.R.X), expected)
	}
	// Zero velocity gives no prograde direction, hence no thrust.
	if a := progradeAccel(accel, []float64{0, 0, 0}); norm(a) != 0 {
		t.Fatal("thrust direction undefined at rest")
	}
}

func TestCannedStates(t *testing.T) {
	s := CircularState(Earth.GM(), LEORadius)
	if !floats.EqualWithinAbs(float64(s.V.Norm()), math.Sqrt(float64(Earth.GM())/float64(LEORadius)), 1e-12) {
		t.Fatal("circular state speed broken")
	}
	p := PeriapsisState(Earth.GM(), 26600, 0.5)
	if !floats.EqualWithinAbs(float64(p.R.Norm()), 13300, 1e-9) {
		t.Fatal("periapsis radius broken")
	}
	el, err := NewElementsFromRV(p, Earth.GM())
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(float64(el.A), 26600, 1e-6) || !floats.EqualWithinAbs(float64(el.E), 0.5, 1e-9) {
		t.Fatalf("periapsis state maps to a=%f e=%f", float64(el.A), float64(el.E))
	}
}
