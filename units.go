package orbital

import (
	"fmt"
	"math"
)

// Dimensioned scalars. Each is a defined type over float64 so that mixing
// dimensions is a compile error; scaling requires an explicit conversion.
type (
	// Distance in kilometers.
	Distance float64
	// Velocity in kilometers per second.
	Velocity float64
	// Seconds of elapsed time.
	Seconds float64
	// Angle in radians.
	Angle float64
	// GravParam is a gravitational parameter μ in km^3/s^2.
	GravParam float64
	// Eccentricity of an elliptical orbit, in [0, 1).
	Eccentricity float64
)

const (
	// maxSolverEcc is the eccentricity ceiling applied before handing an
	// orbit to the Newton solver. The Newton derivative is 1 - e*cos(E),
	// so this keeps it above 1e-3 at periapsis and the iteration count
	// under the cap for any tabulated planetary orbit.
	maxSolverEcc = 0.999
)

// QuantityError reports a scalar whose value lies outside its physical domain.
type QuantityError struct {
	Name   string
	Value  float64
	Reason string
}

func (e QuantityError) Error() string {
	return fmt.Sprintf("%s=%v %s", e.Name, e.Value, e.Reason)
}

// NewDistance returns a strictly positive distance in km.
func NewDistance(km float64) (Distance, error) {
	if km <= 0 || math.IsNaN(km) {
		return 0, QuantityError{"distance(km)", km, "must be positive"}
	}
	return Distance(km), nil
}

// NewSeconds returns a strictly positive duration in seconds.
func NewSeconds(s float64) (Seconds, error) {
	if s <= 0 || math.IsNaN(s) {
		return 0, QuantityError{"time(s)", s, "must be positive"}
	}
	return Seconds(s), nil
}

// NewGravParam returns a strictly positive gravitational parameter.
func NewGravParam(μ float64) (GravParam, error) {
	if μ <= 0 || math.IsNaN(μ) {
		return 0, QuantityError{"μ(km^3/s^2)", μ, "must be positive"}
	}
	return GravParam(μ), nil
}

// NewEccentricity returns an elliptical eccentricity in [0, 1).
func NewEccentricity(e float64) (Eccentricity, error) {
	if e < 0 || math.IsNaN(e) {
		return 0, QuantityError{"eccentricity", e, "must be >= 0"}
	}
	if e >= 1 {
		return 0, QuantityError{"eccentricity", e, "must be < 1 (elliptical)"}
	}
	return Eccentricity(e), nil
}

// ClampedEccentricity clamps to [0, maxSolverEcc]. This is the one place
// where a quantity is coerced instead of rejected: the mean-element tables
// extrapolate eccentricity linearly over centuries and must never hand the
// solver a value at or above 1.
func ClampedEccentricity(e float64) Eccentricity {
	if e < 0 {
		return 0
	}
	if e > maxSolverEcc {
		return maxSolverEcc
	}
	return Eccentricity(e)
}

// Normalized returns the angle in [0, 2π).
func (θ Angle) Normalized() Angle {
	r := math.Mod(float64(θ), 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return Angle(r)
}

// NormalizedSigned returns the angle in (-π, π].
func (θ Angle) NormalizedSigned() Angle {
	r := θ.Normalized()
	if r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}

// Degrees returns the angle in degrees.
func (θ Angle) Degrees() float64 {
	return Rad2deg(float64(θ))
}

func (θ Angle) Sin() float64 { return math.Sin(float64(θ)) }
func (θ Angle) Cos() float64 { return math.Cos(float64(θ)) }

// AngleFromDegrees returns the angle for a value in degrees, without
// normalization.
func AngleFromDegrees(deg float64) Angle {
	return Angle(deg * deg2rad)
}
