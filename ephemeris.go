package orbital

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// Low precision planetary ephemeris from mean Keplerian elements with
// linear secular rates, after Standish & Williams. Good to about a degree
// over century timescales, which is the deliberate trade off for a fully
// self contained computation.

const (
	// J2000JD is the Julian Date of the J2000.0 reference epoch.
	J2000JD = 2451545.0
	// julianCenturyDays is the length of a Julian century.
	julianCenturyDays = 36525.0
	// SecondsPerDay converts days to seconds.
	SecondsPerDay = 86400.0
)

// Transfer window search bounds. Both are hard limits, termination is by
// construction.
const (
	// windowSearchStep is the coarse grid step in days.
	windowSearchStep = 0.1
	// windowSearchMargin scales the synodic period into the search horizon.
	windowSearchMargin = 1.2
	// windowRefineIter is the bisection iteration count on the coarse
	// bracket, far beyond float64 resolution on a 0.2 day interval.
	windowRefineIter = 60
)

// windowMatchε is the acceptance threshold on the refined phase angle.
var windowMatchε = Deg2rad(0.1)

// meanElements are J2000.0 osculating values plus per Julian century rates.
// a in AU, angles in degrees. Source: Standish & Williams, "Approximate
// positions of the planets".
type meanElements struct {
	a0, aDot         float64
	e0, eDot         float64
	i0, iDot         float64
	l0, lDot         float64 // mean longitude
	wBar0, wBarDot   float64 // longitude of perihelion
	omega0, omegaDot float64 // longitude of the ascending node
}

var planetElements = [...]meanElements{
	Mercury: {0.38709831, 0, 0.20563069, 0.00002004, 7.00486, -0.00593, 252.25084, 149472.67411, 77.45645, 0.15929, 48.33067, -0.12534},
	Venus:   {0.72332956, 0, 0.00677323, -0.00004764, 3.39471, -0.00867, 181.97973, 58517.81539, 131.56370, 0.00268, 76.67992, -0.27801},
	Earth:   {1.00000261, 0.00000562, 0.01670857, -0.00004204, -0.00015, -0.01337, 100.46457, 35999.37244, 102.93735, 0.32329, 0, 0},
	Mars:    {1.52366231, -0.00007328, 0.09341233, 0.00009048, 1.85026, -0.00675, -4.55343, 19140.29934, -23.94362, 0.44541, 49.55809, -0.29108},
	Jupiter: {5.20260391, 0.00001663, 0.04849764, 0.00016341, 1.30330, -0.00198, 34.39644, 3034.90567, 14.72847, 0.21536, 100.46444, 0.17656},
	Saturn:  {9.55490916, -0.00021389, 0.05550862, -0.00034661, 2.48868, 0.00774, 49.95424, 1222.11371, 92.59887, -0.41897, 113.66524, -0.25060},
	Uranus:  {19.21844610, -0.00020257, 0.04629511, -0.00003026, 0.77320, 0.00074, 313.23818, 428.48103, 170.95427, 0.40317, 74.01692, 0.04240},
	Neptune: {30.11038688, 0.00006947, 0.00898922, 0.00000606, 1.76917, -0.00542, -55.12002, 218.45652, 44.96476, -0.32636, 131.78406, -0.00651},
}

// PlanetPosition is a heliocentric ecliptic position, valid only at the
// Julian Date it was computed for. Never cache one across epochs.
type PlanetPosition struct {
	JD          float64
	Longitude   Angle    // ecliptic longitude, [0, 2π)
	Latitude    Angle    // ecliptic latitude
	R           Distance // heliocentric distance
	X, Y, Z     float64  // ecliptic Cartesian coordinates, km
	Inclination Angle    // osculating inclination at JD
}

// elementsAt extrapolates the mean elements of b to jd. Panics for the Sun
// and out of range bodies.
func elementsAt(b Body, jd float64) (a Distance, e Eccentricity, i, ω, Ω, M Angle) {
	if b == Sun || int(b) >= len(planetElements) {
		panic(fmt.Errorf("no mean elements for %s", b))
	}
	el := planetElements[b]
	t := (jd - J2000JD) / julianCenturyDays

	a = Distance((el.a0 + el.aDot*t) * float64(AU))
	e = ClampedEccentricity(el.e0 + el.eDot*t)
	i = Angle((el.i0 + el.iDot*t) * deg2rad)
	l := (el.l0 + el.lDot*t) * deg2rad
	wBar := (el.wBar0 + el.wBarDot*t) * deg2rad
	Ω = Angle((el.omega0 + el.omegaDot*t) * deg2rad)
	ω = Angle(wBar - float64(Ω))
	M = Angle(l - wBar).Normalized()
	return
}

// PositionAt returns the heliocentric position of b at jd.
func (b Body) PositionAt(jd float64) PlanetPosition {
	a, e, i, ω, Ω, M := elementsAt(b, jd)

	ν, err := Mean2TrueAnomaly(M, e)
	if err != nil {
		// Unreachable: eccentricities are clamped below maxSolverEcc.
		panic(err)
	}
	r := float64(a) * (1 - float64(e)*float64(e)) / (1 + float64(e)*ν.Cos())

	sinν, cosν := math.Sincos(float64(ν))
	ecl := PQW2ECI(float64(i), float64(ω), float64(Ω), []float64{r * cosν, r * sinν, 0})

	return PlanetPosition{
		JD:          jd,
		Longitude:   Angle(math.Atan2(ecl[1], ecl[0])).Normalized(),
		Latitude:    Angle(math.Asin(ecl[2] / r)),
		R:           Distance(r),
		X:           ecl[0],
		Y:           ecl[1],
		Z:           ecl[2],
		Inclination: i,
	}
}

// EclipticLongitudeAt returns the heliocentric ecliptic longitude of b at jd.
func (b Body) EclipticLongitudeAt(jd float64) Angle {
	return b.PositionAt(jd).Longitude
}

// PhaseAngle returns the signed ecliptic longitude separation from p1 to p2
// at jd, in the direction of orbital motion, normalized to (-π, π].
func PhaseAngle(p1, p2 Body, jd float64) Angle {
	lon1 := p1.EclipticLongitudeAt(jd)
	lon2 := p2.EclipticLongitudeAt(jd)
	return (lon2 - lon1).NormalizedSigned()
}

// SynodicPeriod returns the period between successive identical geometries
// of the two planets, 1/|1/T1 - 1/T2|.
func SynodicPeriod(p1, p2 Body) Seconds {
	t1 := float64(p1.HelioPeriod())
	t2 := float64(p2.HelioPeriod())
	return Seconds(1 / math.Abs(1/t1-1/t2))
}

// HohmannTransferTime returns the heliocentric Hohmann transfer time
// between the mean orbits of the two planets.
func HohmannTransferTime(departure, arrival Body) Seconds {
	return HohmannTOF(Sun.GM(), departure.OrbitRadius(), arrival.OrbitRadius())
}

// HohmannPhaseAngle returns the phase angle the arrival planet must lead
// the departure planet by at departure, π minus the arc the arrival planet
// sweeps during the transfer.
func HohmannPhaseAngle(departure, arrival Body) Angle {
	tTransfer := float64(HohmannTransferTime(departure, arrival))
	n2 := MeanMotion(Sun.GM(), arrival.OrbitRadius())
	return Angle(math.Pi - n2*tTransfer).Normalized()
}

// NextHohmannWindow searches for the first epoch after afterJD at which the
// actual phase angle matches the required Hohmann phase angle. The search
// covers 1.2 synodic periods on a 0.1 day grid and refines the best bracket
// by bisection. ok is false when no epoch within the horizon matches to
// 0.1°, an expected outcome for near parallel geometries.
func NextHohmannWindow(departure, arrival Body, afterJD float64) (jd float64, ok bool) {
	if departure == arrival {
		// Degenerate geometry: the synodic period is unbounded.
		return 0, false
	}
	required := HohmannPhaseAngle(departure, arrival)
	searchDays := float64(SynodicPeriod(departure, arrival)) / SecondsPerDay * windowSearchMargin

	bestJD := afterJD
	bestDiff := math.MaxFloat64
	for cand := afterJD; cand < afterJD+searchDays; cand += windowSearchStep {
		diff := math.Abs(float64((PhaseAngle(departure, arrival, cand) - required).NormalizedSigned()))
		if diff < bestDiff {
			bestDiff = diff
			bestJD = cand
		}
	}

	lo := bestJD - windowSearchStep
	hi := bestJD + windowSearchStep
	for iter := 0; iter < windowRefineIter; iter++ {
		mid := (lo + hi) / 2
		diffLo := float64((PhaseAngle(departure, arrival, lo) - required).NormalizedSigned())
		diffMid := float64((PhaseAngle(departure, arrival, mid) - required).NormalizedSigned())
		if diffLo*diffMid <= 0 {
			hi = mid
		} else {
			lo = mid
		}
	}

	jd = (lo + hi) / 2
	finalDiff := math.Abs(float64((PhaseAngle(departure, arrival, jd) - required).NormalizedSigned()))
	if finalDiff < windowMatchε {
		return jd, true
	}
	return 0, false
}

// ArrivalPosition returns the position of the arrival planet at the end of
// a Hohmann transfer departing at departJD.
func ArrivalPosition(departure, arrival Body, departJD float64) PlanetPosition {
	arrivalJD := departJD + float64(HohmannTransferTime(departure, arrival))/SecondsPerDay
	return arrival.PositionAt(arrivalJD)
}

// TransferInclinationPenalty returns the inclination difference between the
// two planets at jd and the plane change ΔV it costs at the given transfer
// velocity.
func TransferInclinationPenalty(departure, arrival Body, jd float64, vTransfer Velocity) (Δi Angle, penalty Velocity) {
	iDep := departure.PositionAt(jd).Inclination
	iArr := arrival.PositionAt(jd).Inclination
	Δi = Angle(math.Abs(float64(iArr - iDep)))
	return Δi, PlaneChangeDv(vTransfer, Δi)
}

// JulianDate converts a UTC time to a Julian Date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJD converts a Julian Date to a UTC time.
func TimeFromJD(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// DateStringFromJD formats a Julian Date as YYYY-MM-DD.
func DateStringFromJD(jd float64) string {
	return TimeFromJD(jd).Format("2006-01-02")
}

// CalendarToJD converts a Gregorian calendar date to a Julian Date. The day
// may carry a fractional part.
func CalendarToJD(year, month int, day float64) float64 {
	return julian.CalendarGregorianToJD(year, month, day)
}

// JDToCalendar converts a Julian Date to a Gregorian calendar date.
func JDToCalendar(jd float64) (year, month int, day float64) {
	return julian.JDToCalendar(jd)
}
