// Package bridge exposes the engine as flat double precision functions for
// callers outside the Go type system. No dimensioned type crosses this
// boundary: wrapping happens immediately on entry, unwrapping immediately
// before return, and every parameter spells its unit in its name. Inputs
// are re-validated here since the outer caller cannot be trusted to respect
// the internal domains.
package bridge

import (
	"fmt"
	"math"

	orbital "github.com/solarline/orbital"
)

// BoundaryError reports an invalid scalar at the boundary, naming the
// offending argument and its value.
type BoundaryError struct {
	Arg    string
	Value  float64
	Reason string
}

func (e BoundaryError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Arg, e.Value, e.Reason)
}

func positive(arg string, v float64) error {
	if v <= 0 || math.IsNaN(v) {
		return BoundaryError{arg, v, "must be positive"}
	}
	return nil
}

func eccentricity(arg string, e float64) (orbital.Eccentricity, error) {
	if e < 0 || math.IsNaN(e) {
		return 0, BoundaryError{arg, e, "must be >= 0"}
	}
	if e >= 1 {
		return 0, BoundaryError{arg, e, "must be < 1 (elliptical)"}
	}
	return orbital.Eccentricity(e), nil
}

func planet(arg, name string) (orbital.Body, error) {
	b, err := orbital.BodyFromString(name)
	if err != nil || b == orbital.Sun {
		return orbital.Sun, BoundaryError{arg, math.NaN(), fmt.Sprintf("unknown planet %q", name)}
	}
	return b, nil
}

// VisViva returns the orbital velocity in km/s at radius rKm on an orbit of
// semi-major axis aKm.
func VisViva(muKm3S2, rKm, aKm float64) (float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return 0, err
	}
	if err := positive("rKm", rKm); err != nil {
		return 0, err
	}
	if err := positive("aKm", aKm); err != nil {
		return 0, err
	}
	return float64(orbital.VisViva(orbital.GravParam(muKm3S2), orbital.Distance(rKm), orbital.Distance(aKm))), nil
}

// HohmannTransferDv returns the two burn magnitudes in km/s of the transfer
// between circular orbits of radii r1Km and r2Km.
func HohmannTransferDv(muKm3S2, r1Km, r2Km float64) ([2]float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return [2]float64{}, err
	}
	if err := positive("r1Km", r1Km); err != nil {
		return [2]float64{}, err
	}
	if err := positive("r2Km", r2Km); err != nil {
		return [2]float64{}, err
	}
	dv1, dv2 := orbital.HohmannDv(orbital.GravParam(muKm3S2), orbital.Distance(r1Km), orbital.Distance(r2Km))
	return [2]float64{float64(dv1), float64(dv2)}, nil
}

// OrbitalPeriod returns the period in seconds of an orbit of semi-major
// axis aKm.
func OrbitalPeriod(muKm3S2, aKm float64) (float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return 0, err
	}
	if err := positive("aKm", aKm); err != nil {
		return 0, err
	}
	return float64(orbital.Period(orbital.GravParam(muKm3S2), orbital.Distance(aKm))), nil
}

// SpecificEnergy returns ξ = -μ/(2a) in km²/s².
func SpecificEnergy(muKm3S2, aKm float64) (float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return 0, err
	}
	if err := positive("aKm", aKm); err != nil {
		return 0, err
	}
	return orbital.SpecificEnergyξ(orbital.GravParam(muKm3S2), orbital.Distance(aKm)), nil
}

// SpecificAngularMomentum returns h = sqrt(μ a (1-e²)) in km²/s.
func SpecificAngularMomentum(muKm3S2, aKm, ecc float64) (float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return 0, err
	}
	if err := positive("aKm", aKm); err != nil {
		return 0, err
	}
	e, err := eccentricity("ecc", ecc)
	if err != nil {
		return 0, err
	}
	return orbital.SpecificAngularMomentum(orbital.GravParam(muKm3S2), orbital.Distance(aKm), e), nil
}

// KeplerSolve returns the eccentric anomaly in radians for the given mean
// anomaly and eccentricity.
func KeplerSolve(meanAnomRad, ecc float64) (float64, error) {
	e, err := eccentricity("ecc", ecc)
	if err != nil {
		return 0, err
	}
	sol, err := orbital.SolveKepler(orbital.Angle(meanAnomRad), e)
	if err != nil {
		return 0, err
	}
	return float64(sol.EccentricAnomaly), nil
}

// MeanToTrueAnomaly converts a mean anomaly to a true anomaly, both in
// radians.
func MeanToTrueAnomaly(meanAnomRad, ecc float64) (float64, error) {
	e, err := eccentricity("ecc", ecc)
	if err != nil {
		return 0, err
	}
	ν, err := orbital.Mean2TrueAnomaly(orbital.Angle(meanAnomRad), e)
	if err != nil {
		return 0, err
	}
	return float64(ν), nil
}

// TrueToMeanAnomaly converts a true anomaly to a mean anomaly, both in
// radians.
func TrueToMeanAnomaly(trueAnomRad, ecc float64) (float64, error) {
	e, err := eccentricity("ecc", ecc)
	if err != nil {
		return 0, err
	}
	return float64(orbital.True2MeanAnomaly(orbital.Angle(trueAnomRad), e)), nil
}

// EccentricToTrueAnomaly converts an eccentric anomaly to a true anomaly,
// both in radians.
func EccentricToTrueAnomaly(eccAnomRad, ecc float64) (float64, error) {
	e, err := eccentricity("ecc", ecc)
	if err != nil {
		return 0, err
	}
	return float64(orbital.Ecc2TrueAnomaly(orbital.Angle(eccAnomRad), e)), nil
}

// TrueToEccentricAnomaly converts a true anomaly to an eccentric anomaly,
// both in radians.
func TrueToEccentricAnomaly(trueAnomRad, ecc float64) (float64, error) {
	e, err := eccentricity("ecc", ecc)
	if err != nil {
		return 0, err
	}
	return float64(orbital.True2EccAnomaly(orbital.Angle(trueAnomRad), e)), nil
}

// MeanMotion returns n = sqrt(μ/a³) in rad/s.
func MeanMotion(muKm3S2, aKm float64) (float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return 0, err
	}
	if err := positive("aKm", aKm); err != nil {
		return 0, err
	}
	return orbital.MeanMotion(orbital.GravParam(muKm3S2), orbital.Distance(aKm)), nil
}

// PropagateMeanAnomaly advances a mean anomaly by dtSec at mean motion
// nRadS, returning radians in [0, 2π).
func PropagateMeanAnomaly(m0Rad, nRadS, dtSec float64) float64 {
	return float64(orbital.PropagateMeanAnomaly(orbital.Angle(m0Rad), nRadS, orbital.Seconds(dtSec)))
}

// BrachistochroneAccel returns the flip-at-midpoint acceleration in km/s²
// to cover distanceKm in timeSec.
func BrachistochroneAccel(distanceKm, timeSec float64) (float64, error) {
	if err := positive("distanceKm", distanceKm); err != nil {
		return 0, err
	}
	if err := positive("timeSec", timeSec); err != nil {
		return 0, err
	}
	return orbital.BrachistochroneAccel(orbital.Distance(distanceKm), orbital.Seconds(timeSec)), nil
}

// BrachistochroneDv returns the total ΔV in km/s at accelKmS2 over timeSec.
func BrachistochroneDv(accelKmS2, timeSec float64) (float64, error) {
	if err := positive("accelKmS2", accelKmS2); err != nil {
		return 0, err
	}
	if err := positive("timeSec", timeSec); err != nil {
		return 0, err
	}
	return float64(orbital.BrachistochroneDv(accelKmS2, orbital.Seconds(timeSec))), nil
}

// BrachistochroneMaxDistance returns the reachable distance in km at
// accelKmS2 over timeSec.
func BrachistochroneMaxDistance(accelKmS2, timeSec float64) (float64, error) {
	if err := positive("accelKmS2", accelKmS2); err != nil {
		return 0, err
	}
	if err := positive("timeSec", timeSec); err != nil {
		return 0, err
	}
	return float64(orbital.BrachistochroneMaxDistance(accelKmS2, orbital.Seconds(timeSec))), nil
}

// ExhaustVelocity converts a specific impulse in seconds to km/s.
func ExhaustVelocity(ispSec float64) (float64, error) {
	if err := positive("ispSec", ispSec); err != nil {
		return 0, err
	}
	return float64(orbital.ExhaustVelocity(ispSec)), nil
}

// MassRatio returns the Tsiolkovsky mass ratio for dvKmS at exhaust
// velocity veKmS.
func MassRatio(dvKmS, veKmS float64) (float64, error) {
	if dvKmS < 0 || math.IsNaN(dvKmS) {
		return 0, BoundaryError{"dvKmS", dvKmS, "must be >= 0"}
	}
	if err := positive("veKmS", veKmS); err != nil {
		return 0, err
	}
	return orbital.MassRatio(orbital.Velocity(dvKmS), orbital.Velocity(veKmS)), nil
}

// PropellantFraction returns the propellant mass fraction in [0, 1).
func PropellantFraction(dvKmS, veKmS float64) (float64, error) {
	ratio, err := MassRatio(dvKmS, veKmS)
	if err != nil {
		return 0, err
	}
	return 1 - 1/ratio, nil
}

// PlaneChangeDv returns the ΔV in km/s of an inclination change of
// deltaIncRad performed at vKmS.
func PlaneChangeDv(vKmS, deltaIncRad float64) (float64, error) {
	if err := positive("vKmS", vKmS); err != nil {
		return 0, err
	}
	return float64(orbital.PlaneChangeDv(orbital.Velocity(vKmS), orbital.Angle(deltaIncRad))), nil
}
