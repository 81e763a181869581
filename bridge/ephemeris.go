package bridge

import (
	"math"
	"strings"

	orbital "github.com/solarline/orbital"
)

// PlanetPosition returns the heliocentric position of the named planet at
// jd as [longitudeRad, latitudeRad, distanceKm, xKm, yKm, zKm,
// inclinationRad].
func PlanetPosition(name string, jd float64) ([7]float64, error) {
	b, err := planet("planet", name)
	if err != nil {
		return [7]float64{}, err
	}
	pos := b.PositionAt(jd)
	return [7]float64{
		float64(pos.Longitude),
		float64(pos.Latitude),
		float64(pos.R),
		pos.X,
		pos.Y,
		pos.Z,
		float64(pos.Inclination),
	}, nil
}

// PlanetLongitude returns the heliocentric ecliptic longitude in radians of
// the named planet at jd.
func PlanetLongitude(name string, jd float64) (float64, error) {
	b, err := planet("planet", name)
	if err != nil {
		return 0, err
	}
	return float64(b.EclipticLongitudeAt(jd)), nil
}

// PhaseAngle returns the signed longitude separation in radians from p1 to
// p2 at jd, in (-π, π].
func PhaseAngle(p1Name, p2Name string, jd float64) (float64, error) {
	p1, err := planet("planet1", p1Name)
	if err != nil {
		return 0, err
	}
	p2, err := planet("planet2", p2Name)
	if err != nil {
		return 0, err
	}
	return float64(orbital.PhaseAngle(p1, p2, jd)), nil
}

// SynodicPeriod returns the synodic period of the two planets in seconds.
func SynodicPeriod(p1Name, p2Name string) (float64, error) {
	p1, err := planet("planet1", p1Name)
	if err != nil {
		return 0, err
	}
	p2, err := planet("planet2", p2Name)
	if err != nil {
		return 0, err
	}
	return float64(orbital.SynodicPeriod(p1, p2)), nil
}

// HohmannPhaseAngle returns the required departure phase angle in radians.
func HohmannPhaseAngle(depName, arrName string) (float64, error) {
	dep, err := planet("departure", depName)
	if err != nil {
		return 0, err
	}
	arr, err := planet("arrival", arrName)
	if err != nil {
		return 0, err
	}
	return float64(orbital.HohmannPhaseAngle(dep, arr)), nil
}

// HohmannTransferTime returns the heliocentric transfer time in seconds.
func HohmannTransferTime(depName, arrName string) (float64, error) {
	dep, err := planet("departure", depName)
	if err != nil {
		return 0, err
	}
	arr, err := planet("arrival", arrName)
	if err != nil {
		return 0, err
	}
	return float64(orbital.HohmannTransferTime(dep, arr)), nil
}

// NextHohmannWindow returns the Julian Date of the next transfer window
// after afterJD. found is false when no window exists within the search
// horizon, a normal outcome, not an error.
func NextHohmannWindow(depName, arrName string, afterJD float64) (jd float64, found bool, err error) {
	dep, err := planet("departure", depName)
	if err != nil {
		return 0, false, err
	}
	arr, err := planet("arrival", arrName)
	if err != nil {
		return 0, false, err
	}
	jd, found = orbital.NextHohmannWindow(dep, arr, afterJD)
	return jd, found, nil
}

// TransferInclinationPenalty returns [deltaIncRad, dvPenaltyKmS] for a
// transfer between the two planets at jd carried out at velocityKmS.
func TransferInclinationPenalty(depName, arrName string, jd, velocityKmS float64) ([2]float64, error) {
	dep, err := planet("departure", depName)
	if err != nil {
		return [2]float64{}, err
	}
	arr, err := planet("arrival", arrName)
	if err != nil {
		return [2]float64{}, err
	}
	if err := positive("velocityKmS", velocityKmS); err != nil {
		return [2]float64{}, err
	}
	Δi, penalty := orbital.TransferInclinationPenalty(dep, arr, jd, orbital.Velocity(velocityKmS))
	return [2]float64{float64(Δi), float64(penalty)}, nil
}

// J2000JD returns the Julian Date of the J2000.0 epoch.
func J2000JD() float64 { return orbital.J2000JD }

// CalendarToJD converts a Gregorian date to a Julian Date. The day may
// carry a fractional part.
func CalendarToJD(year, month int, day float64) (float64, error) {
	if month < 1 || month > 12 {
		return 0, BoundaryError{"month", float64(month), "must be in [1, 12]"}
	}
	if day < 1 || day >= 32 || math.IsNaN(day) {
		return 0, BoundaryError{"day", day, "must be in [1, 32)"}
	}
	return orbital.CalendarToJD(year, month, day), nil
}

// JDToCalendar converts a Julian Date to a Gregorian calendar date. The day
// carries the fractional part.
func JDToCalendar(jd float64) (year, month int, day float64) {
	return orbital.JDToCalendar(jd)
}

// JDToDateString formats a Julian Date as YYYY-MM-DD.
func JDToDateString(jd float64) string {
	return orbital.DateStringFromJD(jd)
}

// GravitationalParameters returns all μ constants in km³/s², keyed by
// lowercase body name, Sun included. One call per table rather than one
// call per value keeps boundary crossings cheap.
func GravitationalParameters() map[string]float64 {
	out := make(map[string]float64, len(orbital.Planets)+1)
	out["sun"] = float64(orbital.Sun.GM())
	for _, b := range orbital.Planets {
		out[lower(b)] = float64(b.GM())
	}
	return out
}

// OrbitRadii returns the mean heliocentric orbit radii in km of the eight
// planets, keyed by lowercase name.
func OrbitRadii() map[string]float64 {
	out := make(map[string]float64, len(orbital.Planets))
	for _, b := range orbital.Planets {
		out[lower(b)] = float64(b.OrbitRadius())
	}
	return out
}

// ReferenceOrbits returns the reference orbit constants in km.
func ReferenceOrbits() map[string]float64 {
	return map[string]float64{
		"au_km":           float64(orbital.AU),
		"earth_radius_km": float64(orbital.EarthRadius),
		"leo_radius_km":   float64(orbital.LEORadius),
		"geo_radius_km":   float64(orbital.GEORadius),
	}
}

func lower(b orbital.Body) string {
	return strings.ToLower(b.String())
}
