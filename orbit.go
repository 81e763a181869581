package orbital

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
	velocityε     = 1e-6                         // in km/s
)

// Elements defines an elliptical orbit via its classical orbital elements,
// with the mean anomaly at the reference epoch. Angles in radians,
// normalized to [0, 2π) at construction.
type Elements struct {
	A Distance     // semi-major axis
	E Eccentricity //
	I Angle        // inclination
	Ω Angle        // right ascension of the ascending node
	ω Angle        // argument of periapsis
	M Angle        // mean anomaly at epoch
	μ GravParam    // gravitational parameter of the primary
}

// State is a position and velocity pair relative to a primary.
type State struct {
	R Vec3[Distance]
	V Vec3[Velocity]
}

// NewElements builds a validated element set. Angles may be any value and
// are normalized to [0, 2π).
func NewElements(a Distance, e Eccentricity, i, Ω, ω, M Angle, μ GravParam) (Elements, error) {
	if a <= 0 {
		return Elements{}, QuantityError{"semi-major axis(km)", float64(a), "must be positive"}
	}
	if e < 0 || e >= 1 {
		return Elements{}, QuantityError{"eccentricity", float64(e), "must be in [0,1)"}
	}
	if μ <= 0 {
		return Elements{}, QuantityError{"μ(km^3/s^2)", float64(μ), "must be positive"}
	}
	return Elements{a, e, i.Normalized(), Ω.Normalized(), ω.Normalized(), M.Normalized(), μ}, nil
}

// Energyξ returns the specific mechanical energy ξ.
func (el Elements) Energyξ() float64 {
	return SpecificEnergyξ(el.μ, el.A)
}

// SemiParameter returns the semi-parameter p = a(1-e²).
func (el Elements) SemiParameter() Distance {
	return Distance(float64(el.A) * (1 - float64(el.E)*float64(el.E)))
}

// Apoapsis returns the apoapsis radius.
func (el Elements) Apoapsis() Distance {
	return Distance(float64(el.A) * (1 + float64(el.E)))
}

// Periapsis returns the periapsis radius.
func (el Elements) Periapsis() Distance {
	return Distance(float64(el.A) * (1 - float64(el.E)))
}

// Period returns the orbital period.
func (el Elements) Period() Seconds {
	return Period(el.μ, el.A)
}

// String implements the Stringer interface.
func (el Elements) String() string {
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f M=%.3f",
		float64(el.A), float64(el.E), el.I.Degrees(), el.Ω.Degrees(), el.ω.Degrees(), el.M.Degrees())
}

// RV returns the inertial state at the element set's epoch, solving
// Kepler's equation for the true anomaly and rotating the perifocal state
// per the 3-1-3 sequence. Circular and equatorial orbits follow the Vallado
// page 126 special cases.
func (el Elements) RV() (State, error) {
	ν, err := Mean2TrueAnomaly(el.M, el.E)
	if err != nil {
		return State{}, err
	}
	e := float64(el.E)
	i := float64(el.I)
	ω := float64(el.ω)
	Ω := float64(el.Ω)
	if e < eccentricityε {
		ω = 0
		if i < angleε {
			Ω = 0
		}
	} else if i < angleε {
		Ω = 0
		ω = math.Mod(float64(el.ω)+float64(el.Ω), 2*math.Pi)
	}

	p := float64(el.SemiParameter())
	sinν, cosν := math.Sincos(float64(ν))
	R := []float64{p * cosν / (1 + e*cosν), p * sinν / (1 + e*cosν), 0}
	R = PQW2ECI(i, ω, Ω, R)
	V := []float64{-math.Sqrt(float64(el.μ)/p) * sinν, math.Sqrt(float64(el.μ)/p) * (e + cosν), 0}
	V = PQW2ECI(i, ω, Ω, V)

	return State{Vec3FromSlice[Distance](R), Vec3FromSlice[Velocity](V)}, nil
}

// NewElementsFromRV returns the element set matching the given state.
// From Vallado's RV2COE, page 113. Hyperbolic and parabolic states are
// rejected rather than approximated.
func NewElementsFromRV(s State, μ GravParam) (Elements, error) {
	R := s.R.Slice()
	V := s.V.Slice()
	hVec := cross(R, V)
	n := cross([]float64{0, 0, 1}, hVec)
	v := norm(V)
	r := norm(R)
	if r == 0 {
		return Elements{}, QuantityError{"radius(km)", r, "must be positive"}
	}
	ξ := (v*v)/2 - float64(μ)/r
	if ξ >= 0 {
		return Elements{}, QuantityError{"specific energy(km^2/s^2)", ξ, "must be negative (elliptical)"}
	}
	a := -float64(μ) / (2 * ξ)
	eVec := make([]float64, 3)
	for j := 0; j < 3; j++ {
		eVec[j] = ((v*v-float64(μ)/r)*R[j] - dot(R, V)*V[j]) / float64(μ)
	}
	e := norm(eVec)

	cosi := hVec[2] / norm(hVec)
	if abscosi := math.Abs(cosi); abscosi > 1 && floats.EqualWithinAbs(abscosi, 1, 1e-12) {
		cosi = sign(cosi)
	}
	i := math.Acos(cosi)
	ω := math.Acos(dot(n, eVec) / (norm(n) * e))
	if math.IsNaN(ω) {
		ω = 0
	}
	if eVec[2] < 0 {
		ω = 2*math.Pi - ω
	}
	Ω := math.Acos(n[0] / norm(n))
	if math.IsNaN(Ω) {
		Ω = 0
	}
	if n[1] < 0 {
		Ω = 2*math.Pi - Ω
	}
	cosν := dot(eVec, R) / (e * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && floats.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = sign(cosν)
	}
	ν := math.Acos(cosν)
	if math.IsNaN(ν) {
		ν = 0
	}
	if dot(R, V) < 0 {
		ν = 2*math.Pi - ν
	}
	// Fix rounding errors.
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)

	ecc, err := NewEccentricity(e)
	if err != nil {
		return Elements{}, err
	}
	M := True2MeanAnomaly(Angle(ν), ecc)
	return NewElements(Distance(a), ecc, Angle(i), Angle(Ω), Angle(ω), M, μ)
}

// Radii2ae returns the semi major axis and the eccentricity from the radii.
func Radii2ae(rA, rP Distance) (a Distance, e Eccentricity) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = Eccentricity(float64(rA-rP) / float64(rA+rP))
	return
}
