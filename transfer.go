package orbital

import "math"

// Analytic transfer models. All of these are closed-form two-body results,
// cf. Vallado chapter 6 for the Hohmann derivations.

// g0 is the standard gravity used for specific impulse conversions, in m/s^2.
const g0 = 9.80665

// VisViva returns the orbital velocity at radius r on an orbit of semi-major
// axis a, v = sqrt(μ(2/r - 1/a)). With r == a this reduces to the circular
// velocity sqrt(μ/r).
func VisViva(μ GravParam, r, a Distance) Velocity {
	return Velocity(math.Sqrt(float64(μ) * (2/float64(r) - 1/float64(a))))
}

// HohmannDv returns the two burn magnitudes of the minimum energy coplanar
// transfer between circular orbits of radii r1 and r2. A transfer onto the
// same radius costs nothing.
func HohmannDv(μ GravParam, r1, r2 Distance) (Δv1, Δv2 Velocity) {
	aTransfer := (r1 + r2) / 2

	vCirc1 := Velocity(math.Sqrt(float64(μ) / float64(r1)))
	Δv1 = Velocity(math.Abs(float64(VisViva(μ, r1, aTransfer) - vCirc1)))

	vCirc2 := Velocity(math.Sqrt(float64(μ) / float64(r2)))
	Δv2 = Velocity(math.Abs(float64(vCirc2 - VisViva(μ, r2, aTransfer))))
	return
}

// HohmannTOF returns the time of flight of the Hohmann transfer between
// circular orbits of radii r1 and r2, half the transfer ellipse period.
func HohmannTOF(μ GravParam, r1, r2 Distance) Seconds {
	aTransfer := (r1 + r2) / 2
	return Period(μ, aTransfer) / 2
}

// Period returns the orbital period T = 2π sqrt(a³/μ).
func Period(μ GravParam, a Distance) Seconds {
	return Seconds(2 * math.Pi * math.Sqrt(math.Pow(float64(a), 3)/float64(μ)))
}

// SpecificEnergyξ returns the specific orbital energy ξ = -μ/(2a) in km²/s².
func SpecificEnergyξ(μ GravParam, a Distance) float64 {
	return -float64(μ) / (2 * float64(a))
}

// SpecificAngularMomentum returns h = sqrt(μ a (1-e²)) in km²/s.
func SpecificAngularMomentum(μ GravParam, a Distance, e Eccentricity) float64 {
	return math.Sqrt(float64(μ) * float64(a) * (1 - float64(e)*float64(e)))
}

// Brachistochrone transfers model constant thrust with a flip at the
// midpoint: accelerate over d/2, flip, decelerate over d/2, rest to rest,
// gravity neglected. Accelerations are in km/s².

// BrachistochroneAccel returns the required acceleration to cover distance d
// in time t, a = 4d/t².
func BrachistochroneAccel(d Distance, t Seconds) float64 {
	return 4 * float64(d) / (float64(t) * float64(t))
}

// BrachistochroneDv returns the total ΔV expended at acceleration a over
// time t, ΔV = a·t.
func BrachistochroneDv(accel float64, t Seconds) Velocity {
	return Velocity(accel * float64(t))
}

// BrachistochroneMaxDistance returns the farthest point reachable at
// acceleration a in time t, d = a·t²/4. Inverse of BrachistochroneAccel.
func BrachistochroneMaxDistance(accel float64, t Seconds) Distance {
	return Distance(accel * float64(t) * float64(t) / 4)
}

// ExhaustVelocity converts a specific impulse in seconds to an exhaust
// velocity in km/s, vₑ = Isp·g₀.
func ExhaustVelocity(ispSec float64) Velocity {
	return Velocity(ispSec * g0 / 1e3)
}

// MassRatio returns the Tsiolkovsky mass ratio m₀/m_f = exp(ΔV/vₑ).
func MassRatio(Δv, ve Velocity) float64 {
	return math.Exp(float64(Δv) / float64(ve))
}

// PropellantFraction returns the propellant mass fraction 1 - 1/massRatio,
// in [0, 1).
func PropellantFraction(Δv, ve Velocity) float64 {
	return 1 - 1/MassRatio(Δv, ve)
}

// PlaneChangeDv returns the ΔV of a pure inclination change Δi performed at
// velocity v, ΔV = 2 v sin(Δi/2).
func PlaneChangeDv(v Velocity, Δi Angle) Velocity {
	return Velocity(2 * float64(v) * math.Sin(float64(Δi)/2))
}
