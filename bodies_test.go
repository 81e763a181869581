package orbital

import (
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func TestBodyData(t *testing.T) {
	for b := Sun; b <= Neptune; b++ {
		if b.String() == "" {
			t.Fatalf("body %d has no name", b)
		}
		if b.GM() <= 0 {
			t.Fatalf("%s has no gravitational parameter", b)
		}
		if b.Radius() <= 0 {
			t.Fatalf("%s has no radius", b)
		}
	}
	prev := Distance(0)
	for _, b := range Planets {
		if b.OrbitRadius() <= prev {
			t.Fatalf("%s breaks the heliocentric ordering", b)
		}
		prev = b.OrbitRadius()
	}
	if Earth.OrbitRadius() != AU {
		t.Fatal("the AU is defined as the Earth orbit radius")
	}
	if Earth.Radius() != EarthRadius {
		t.Fatal("Earth radius mismatch")
	}
	// One Earth year within a tenth of a day.
	days := float64(Earth.HelioPeriod()) / SecondsPerDay
	if !floats.EqualWithinAbs(days, 365.25, 0.1) {
		t.Fatalf("Earth heliocentric period = %f days", days)
	}
}

func TestBodyFromString(t *testing.T) {
	for b := Sun; b <= Neptune; b++ {
		for _, name := range []string{b.String(), strings.ToLower(b.String()), strings.ToUpper(b.String())} {
			got, err := BodyFromString(name)
			if err != nil {
				t.Fatalf("BodyFromString(%q): %s", name, err)
			}
			if got != b {
				t.Fatalf("BodyFromString(%q) = %s", name, got)
			}
		}
	}
	if _, err := BodyFromString("Pluto"); err == nil {
		t.Fatal("Pluto is not tracked and must be rejected")
	}
}

func TestBodyPanics(t *testing.T) {
	assertPanic(t, "unknown body name", func() { _ = Body(42).String() })
	assertPanic(t, "Sun orbit radius", func() { _ = Sun.OrbitRadius() })
}

func assertPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s should panic", what)
		}
	}()
	f()
}
