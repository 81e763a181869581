package orbital

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestVisViva(t *testing.T) {
	// Circular orbits reduce to sqrt(μ/r).
	for _, r := range []Distance{LEORadius, GEORadius} {
		v := VisViva(Earth.GM(), r, r)
		if !floats.EqualWithinAbs(float64(v), math.Sqrt(float64(Earth.GM())/float64(r)), 1e-12) {
			t.Fatalf("circular vis-viva broken at r=%f", float64(r))
		}
	}
	// The Earth moves at about 29.78 km/s around the Sun.
	if !floats.EqualWithinAbs(float64(VisViva(Sun.GM(), AU, AU)), 29.7847, 1e-3) {
		t.Fatalf("heliocentric Earth velocity = %f", float64(VisViva(Sun.GM(), AU, AU)))
	}
	// Periapsis is the fastest point of an eccentric orbit.
	a := (LEORadius + GEORadius) / 2
	if VisViva(Earth.GM(), LEORadius, a) <= VisViva(Earth.GM(), GEORadius, a) {
		t.Fatal("periapsis must be faster than apoapsis")
	}
}

func TestHohmann(t *testing.T) {
	// Same radius: free transfer.
	Δv1, Δv2 := HohmannDv(Earth.GM(), LEORadius, LEORadius)
	if Δv1 != 0 || Δv2 != 0 {
		t.Fatalf("transfer onto the same orbit costs %f + %f", float64(Δv1), float64(Δv2))
	}

	// LEO to GEO, cf. Vallado chapter 6 figures.
	Δv1, Δv2 = HohmannDv(Earth.GM(), LEORadius, GEORadius)
	if !floats.EqualWithinAbs(float64(Δv1), 2.4546, 5e-3) {
		t.Fatalf("LEO->GEO Δv1 = %f", float64(Δv1))
	}
	if !floats.EqualWithinAbs(float64(Δv2), 1.4773, 5e-3) {
		t.Fatalf("LEO->GEO Δv2 = %f", float64(Δv2))
	}
	tof := HohmannTOF(Earth.GM(), LEORadius, GEORadius)
	if !floats.EqualWithinAbs(float64(tof), 18932, 20) {
		t.Fatalf("LEO->GEO TOF = %f s", float64(tof))
	}

	// Earth to Mars heliocentric.
	Δv1, Δv2 = HohmannDv(Sun.GM(), Earth.OrbitRadius(), Mars.OrbitRadius())
	if !floats.EqualWithinAbs(float64(Δv1+Δv2), 5.594, 1e-2) {
		t.Fatalf("Earth->Mars total Δv = %f", float64(Δv1+Δv2))
	}
	days := float64(HohmannTOF(Sun.GM(), Earth.OrbitRadius(), Mars.OrbitRadius())) / SecondsPerDay
	if !floats.EqualWithinAbs(days, 258.9, 0.5) {
		t.Fatalf("Earth->Mars TOF = %f days", days)
	}

	// Direction does not matter for the magnitudes.
	up1, up2 := HohmannDv(Earth.GM(), LEORadius, GEORadius)
	down1, down2 := HohmannDv(Earth.GM(), GEORadius, LEORadius)
	if !floats.EqualWithinAbs(float64(up1), float64(down2), 1e-12) || !floats.EqualWithinAbs(float64(up2), float64(down1), 1e-12) {
		t.Fatal("Hohmann burns must be symmetric in direction")
	}
}

func TestPeriod(t *testing.T) {
	if !floats.EqualWithinAbs(float64(Period(Earth.GM(), LEORadius)), 5309.7, 1) {
		t.Fatalf("LEO period = %f s", float64(Period(Earth.GM(), LEORadius)))
	}
	// GEO by definition takes one sidereal day.
	if !floats.EqualWithinAbs(float64(Period(Earth.GM(), GEORadius))/3600, 23.934, 0.01) {
		t.Fatalf("GEO period = %f h", float64(Period(Earth.GM(), GEORadius))/3600)
	}
}

func TestOrbitIntegrals(t *testing.T) {
	ξ := SpecificEnergyξ(Earth.GM(), LEORadius)
	if !floats.EqualWithinAbs(ξ, -float64(Earth.GM())/(2*float64(LEORadius)), 1e-12) {
		t.Fatalf("ξ = %f", ξ)
	}
	h := SpecificAngularMomentum(Earth.GM(), LEORadius, 0)
	vCirc := float64(VisViva(Earth.GM(), LEORadius, LEORadius))
	if !floats.EqualWithinAbs(h, vCirc*float64(LEORadius), 1e-6) {
		t.Fatalf("circular h = %f", h)
	}
	if SpecificAngularMomentum(Earth.GM(), LEORadius, 0.5) >= h {
		t.Fatal("eccentricity must reduce the angular momentum at fixed a")
	}
}

func TestBrachistochrone(t *testing.T) {
	// Earth to Mars at closest approach in three days.
	d := Distance(54.6e6)
	flight := Seconds(3 * SecondsPerDay)
	accel := BrachistochroneAccel(d, flight)
	if !floats.EqualWithinAbs(accel, 3.25074e-3, 1e-7) {
		t.Fatalf("accel = %e km/s²", accel)
	}
	if !floats.EqualWithinAbs(float64(BrachistochroneDv(accel, flight)), 842.6, 0.1) {
		t.Fatalf("Δv = %f km/s", float64(BrachistochroneDv(accel, flight)))
	}
	// The kinematics invert exactly.
	if !floats.EqualWithinAbs(float64(BrachistochroneMaxDistance(accel, flight)), float64(d), 1e-6) {
		t.Fatal("max distance must invert the acceleration")
	}
	// Doubling the time quarters the acceleration.
	if !floats.EqualWithinAbs(BrachistochroneAccel(d, 2*flight)*4, accel, 1e-12) {
		t.Fatal("acceleration must scale with 1/t²")
	}
}

func TestTsiolkovsky(t *testing.T) {
	ve := ExhaustVelocity(3000)
	if !floats.EqualWithinAbs(float64(ve), 29.41995, 1e-9) {
		t.Fatalf("ve = %f km/s", float64(ve))
	}
	if MassRatio(0, ve) != 1 {
		t.Fatal("zero ΔV needs no propellant")
	}
	if PropellantFraction(0, ve) != 0 {
		t.Fatal("zero ΔV needs no propellant")
	}
	// ΔV = ve ln(2) doubles the wet mass.
	Δv := Velocity(float64(ve) * math.Ln2)
	if !floats.EqualWithinAbs(MassRatio(Δv, ve), 2, 1e-12) {
		t.Fatalf("mass ratio = %f", MassRatio(Δv, ve))
	}
	if !floats.EqualWithinAbs(PropellantFraction(Δv, ve), 0.5, 1e-12) {
		t.Fatalf("propellant fraction = %f", PropellantFraction(Δv, ve))
	}
}

func TestPlaneChangeDv(t *testing.T) {
	if PlaneChangeDv(7.784, 0) != 0 {
		t.Fatal("no plane change is free")
	}
	// A 60 degree change costs a full orbital velocity.
	if !floats.EqualWithinAbs(float64(PlaneChangeDv(7.784, AngleFromDegrees(60))), 7.784, 1e-9) {
		t.Fatalf("60° change = %f", float64(PlaneChangeDv(7.784, AngleFromDegrees(60))))
	}
}
