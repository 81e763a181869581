package orbital

import (
	"fmt"
	"math"
)

// Kepler's equation M = E - e*sin(E) and the anomaly conversions around it.
// Elliptical orbits only, as guaranteed by the Eccentricity domain.

const (
	// keplerε is the convergence tolerance on the Newton step.
	keplerε = 1e-14
	// keplerMaxIter bounds the Newton iteration. With the initial guesses
	// below, planetary eccentricities converge in under ten iterations.
	keplerMaxIter = 50
)

// KeplerSolution is the result of a Kepler equation solve.
type KeplerSolution struct {
	EccentricAnomaly Angle
	Iterations       uint
	// Residual is |M - (E - e*sin(E))| at the accepted solution.
	Residual float64
}

// ConvergenceError reports an iterative solve which exhausted its iteration
// cap without meeting tolerance.
type ConvergenceError struct {
	Iterations uint
	Ecc        Eccentricity
	MeanAnom   Angle
}

func (e ConvergenceError) Error() string {
	return fmt.Sprintf("Kepler solver did not converge after %d iterations (e=%v, M=%v)", e.Iterations, float64(e.Ecc), float64(e.MeanAnom))
}

// SolveKepler solves M = E - e*sin(E) for the eccentric anomaly E via
// Newton-Raphson with the default tolerance and iteration cap.
func SolveKepler(M Angle, e Eccentricity) (KeplerSolution, error) {
	return SolveKeplerWithParams(M, e, keplerε, keplerMaxIter)
}

// SolveKeplerWithParams solves Kepler's equation with a custom tolerance and
// iteration cap. From Vallado, Algorithm 2 (KepEqtnE), page 65, with the
// high eccentricity starting point moved to π.
func SolveKeplerWithParams(M Angle, e Eccentricity, tol float64, maxIter uint) (KeplerSolution, error) {
	m := float64(M.Normalized())
	ecc := float64(e)

	// E₀ = M + e*sin(M) converges quickly for low eccentricities but
	// stalls near periapsis as e approaches 1.
	E := m + ecc*math.Sin(m)
	if ecc >= 0.8 {
		E = math.Pi
	}

	for iter := uint(1); iter <= maxIter; iter++ {
		sinE, cosE := math.Sincos(E)
		f := E - ecc*sinE - m
		fPrime := 1 - ecc*cosE
		if math.Abs(fPrime) < 1e-30 {
			// Unreachable for e < 1, the derivative is at least 1-e.
			return KeplerSolution{}, ConvergenceError{iter, e, M}
		}
		δ := f / fPrime
		E -= δ
		if math.Abs(δ) < tol {
			residual := math.Abs(E - ecc*math.Sin(E) - m)
			return KeplerSolution{Angle(E), iter, residual}, nil
		}
	}
	return KeplerSolution{}, ConvergenceError{maxIter, e, M}
}

// Ecc2TrueAnomaly converts the eccentric anomaly to the true anomaly,
// tan(ν/2) = sqrt((1+e)/(1-e)) * tan(E/2).
func Ecc2TrueAnomaly(E Angle, e Eccentricity) Angle {
	ecc := float64(e)
	halfν := math.Sqrt((1+ecc)/(1-ecc)) * math.Tan(float64(E)/2)
	return Angle(2 * math.Atan(halfν)).Normalized()
}

// True2EccAnomaly converts the true anomaly to the eccentric anomaly,
// tan(E/2) = sqrt((1-e)/(1+e)) * tan(ν/2).
func True2EccAnomaly(ν Angle, e Eccentricity) Angle {
	ecc := float64(e)
	halfE := math.Sqrt((1-ecc)/(1+ecc)) * math.Tan(float64(ν)/2)
	return Angle(2 * math.Atan(halfE)).Normalized()
}

// Ecc2MeanAnomaly converts the eccentric anomaly to the mean anomaly.
func Ecc2MeanAnomaly(E Angle, e Eccentricity) Angle {
	return Angle(float64(E) - float64(e)*E.Sin()).Normalized()
}

// True2MeanAnomaly converts the true anomaly to the mean anomaly via the
// eccentric anomaly.
func True2MeanAnomaly(ν Angle, e Eccentricity) Angle {
	return Ecc2MeanAnomaly(True2EccAnomaly(ν, e), e)
}

// Mean2TrueAnomaly converts the mean anomaly to the true anomaly via a
// Kepler equation solve.
func Mean2TrueAnomaly(M Angle, e Eccentricity) (Angle, error) {
	sol, err := SolveKepler(M, e)
	if err != nil {
		return 0, err
	}
	return Ecc2TrueAnomaly(sol.EccentricAnomaly, e), nil
}

// MeanMotion returns n = sqrt(μ/a³) in rad/s.
func MeanMotion(μ GravParam, a Distance) float64 {
	return math.Sqrt(float64(μ) / math.Pow(float64(a), 3))
}

// PropagateMeanAnomaly advances the mean anomaly by Δt seconds at the mean
// motion n, M(t) = M₀ + n*Δt.
func PropagateMeanAnomaly(M0 Angle, n float64, Δt Seconds) Angle {
	return Angle(float64(M0) + n*float64(Δt)).Normalized()
}
