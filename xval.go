package orbital

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

// Cross validation harness. The engine exports a fixed battery of scenarios
// with its own computed outputs; an independently built implementation
// recomputes the same inputs and diffs against the declared tolerances.
// A passing run is the gate guarding against a single wrong sign or
// constant silently corrupting every downstream figure.

// defaultXValTol is the relative tolerance applied when a scenario does not
// declare its own.
const defaultXValTol = 1e-6

// ephemerisXValTol is the looser override for mean element ephemeris
// scenarios, which are only good to about a degree against a real theory.
const ephemerisXValTol = 1e-2

// Scenario is one cross validation record: a named computation, its scalar
// inputs, and the outputs this engine computed for them.
type Scenario struct {
	Name    string             `json:"scenario"`
	Inputs  map[string]float64 `json:"inputs"`
	Outputs map[string]float64 `json:"outputs"`
	RelTol  float64            `json:"tolerance,omitempty"`
}

// Mismatch reports one output outside tolerance between two scenario sets.
type Mismatch struct {
	Scenario string
	Output   string
	Ref, Got float64
	RelTol   float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("[FAIL] %s/%s: ref=%.15e got=%.15e (rtol=%g)", m.Scenario, m.Output, m.Ref, m.Got, m.RelTol)
}

// ReferenceScenarios computes the full scenario battery.
func ReferenceScenarios() []Scenario {
	var sc []Scenario
	add := func(name string, inputs, outputs map[string]float64, tol float64) {
		sc = append(sc, Scenario{Name: name, Inputs: inputs, Outputs: outputs, RelTol: tol})
	}

	// Vis-viva.
	for _, c := range []struct {
		name string
		μ    GravParam
		r, a Distance
	}{
		{"vis_viva_leo_circular", Earth.GM(), LEORadius, LEORadius},
		{"vis_viva_geo_circular", Earth.GM(), GEORadius, GEORadius},
		{"vis_viva_earth_heliocentric", Sun.GM(), AU, AU},
		{"vis_viva_leo_geo_transfer_periapsis", Earth.GM(), LEORadius, (LEORadius + GEORadius) / 2},
	} {
		add(c.name,
			map[string]float64{"mu_km3_s2": float64(c.μ), "r_km": float64(c.r), "a_km": float64(c.a)},
			map[string]float64{"v_km_s": float64(VisViva(c.μ, c.r, c.a))}, 0)
	}

	// Hohmann transfers.
	for _, c := range []struct {
		name   string
		μ      GravParam
		r1, r2 Distance
	}{
		{"hohmann_leo_geo", Earth.GM(), LEORadius, GEORadius},
		{"hohmann_earth_mars", Sun.GM(), Earth.OrbitRadius(), Mars.OrbitRadius()},
		{"hohmann_earth_jupiter", Sun.GM(), Earth.OrbitRadius(), Jupiter.OrbitRadius()},
	} {
		Δv1, Δv2 := HohmannDv(c.μ, c.r1, c.r2)
		add(c.name,
			map[string]float64{"mu_km3_s2": float64(c.μ), "r1_km": float64(c.r1), "r2_km": float64(c.r2)},
			map[string]float64{
				"dv1_km_s":   float64(Δv1),
				"dv2_km_s":   float64(Δv2),
				"total_km_s": float64(Δv1 + Δv2),
				"tof_s":      float64(HohmannTOF(c.μ, c.r1, c.r2)),
			}, 0)
	}

	// Orbital periods.
	for _, c := range []struct {
		name string
		μ    GravParam
		a    Distance
	}{
		{"period_leo", Earth.GM(), LEORadius},
		{"period_earth_heliocentric", Sun.GM(), Earth.OrbitRadius()},
		{"period_mars_heliocentric", Sun.GM(), Mars.OrbitRadius()},
	} {
		add(c.name,
			map[string]float64{"mu_km3_s2": float64(c.μ), "a_km": float64(c.a)},
			map[string]float64{"period_s": float64(Period(c.μ, c.a))}, 0)
	}

	// Kepler solutions, including the Vallado case and a Halley class
	// eccentricity.
	for _, c := range []struct {
		name string
		e    Eccentricity
		M    Angle
	}{
		{"kepler_earth_like", 0.0167, math.Pi / 4},
		{"kepler_vallado_e04", 0.4, AngleFromDegrees(235.4)},
		{"kepler_halley_class", 0.967, 0.5},
	} {
		sol, err := SolveKepler(c.M, c.e)
		if err != nil {
			panic(err)
		}
		ν := Ecc2TrueAnomaly(sol.EccentricAnomaly, c.e)
		add(c.name,
			map[string]float64{"eccentricity": float64(c.e), "mean_anomaly_rad": float64(c.M.Normalized())},
			map[string]float64{
				"eccentric_anomaly_rad": float64(sol.EccentricAnomaly),
				"true_anomaly_rad":      float64(ν),
			}, 0)
	}

	// Mean motion.
	add("mean_motion_earth",
		map[string]float64{"mu_km3_s2": float64(Sun.GM()), "a_km": float64(Earth.OrbitRadius())},
		map[string]float64{"n_rad_s": MeanMotion(Sun.GM(), Earth.OrbitRadius())}, 0)

	// Brachistochrone kinematics, Earth to Mars at closest approach.
	{
		d := Distance(54.6e6)
		t := Seconds(3 * SecondsPerDay)
		accel := BrachistochroneAccel(d, t)
		add("brachistochrone_mars_3d",
			map[string]float64{"distance_km": float64(d), "time_s": float64(t)},
			map[string]float64{
				"accel_km_s2":     accel,
				"dv_km_s":         float64(BrachistochroneDv(accel, t)),
				"max_distance_km": float64(BrachistochroneMaxDistance(accel, t)),
			}, 0)
	}

	// Tsiolkovsky.
	{
		ve := ExhaustVelocity(3000)
		Δv := Velocity(10)
		add("tsiolkovsky_isp3000_dv10",
			map[string]float64{"isp_s": 3000, "dv_km_s": float64(Δv)},
			map[string]float64{
				"ve_km_s":             float64(ve),
				"mass_ratio":          MassRatio(Δv, ve),
				"propellant_fraction": PropellantFraction(Δv, ve),
			}, 0)
	}

	// Orbit integrals.
	add("orbit_integrals_leo",
		map[string]float64{"mu_km3_s2": float64(Earth.GM()), "a_km": float64(LEORadius), "eccentricity": 0},
		map[string]float64{
			"specific_energy_km2_s2": SpecificEnergyξ(Earth.GM(), LEORadius),
			"ang_momentum_km2_s":     SpecificAngularMomentum(Earth.GM(), LEORadius, 0),
		}, 0)

	// Ephemeris positions at J2000 and a century later.
	for _, c := range []struct {
		name string
		b    Body
		jd   float64
	}{
		{"earth_position_j2000", Earth, J2000JD},
		{"mars_position_j2000", Mars, J2000JD},
		{"jupiter_position_2100", Jupiter, J2000JD + julianCenturyDays},
	} {
		pos := c.b.PositionAt(c.jd)
		add(c.name,
			map[string]float64{"jd": c.jd},
			map[string]float64{
				"longitude_rad": float64(pos.Longitude),
				"distance_km":   float64(pos.R),
			}, ephemerisXValTol)
	}

	// Phase geometry.
	add("phase_angle_earth_mars_j2000",
		map[string]float64{"jd": J2000JD},
		map[string]float64{"phase_angle_rad": float64(PhaseAngle(Earth, Mars, J2000JD))}, ephemerisXValTol)
	add("synodic_earth_mars",
		map[string]float64{},
		map[string]float64{"synodic_s": float64(SynodicPeriod(Earth, Mars))}, 0)
	add("hohmann_phase_angle_earth_mars",
		map[string]float64{},
		map[string]float64{
			"phase_angle_rad": float64(HohmannPhaseAngle(Earth, Mars)),
			"transfer_time_s": float64(HohmannTransferTime(Earth, Mars)),
		}, 0)
	if jd, ok := NextHohmannWindow(Earth, Mars, J2000JD); ok {
		add("next_window_earth_mars_j2000",
			map[string]float64{"after_jd": J2000JD},
			map[string]float64{"window_jd": jd}, ephemerisXValTol)
	}

	// Propagation: one LEO period, fixed step.
	{
		period := Period(Earth.GM(), LEORadius)
		prop, err := NewPropagation(CircularState(Earth.GM(), LEORadius), Earth, Coast{}, 1, period)
		if err != nil {
			panic(err)
		}
		prop.Propagate()
		final := prop.State()
		add("propagate_leo_one_period",
			map[string]float64{"r_km": float64(LEORadius), "dt_s": 1, "duration_s": float64(period)},
			map[string]float64{
				"r_final_km":   float64(final.R.Norm()),
				"v_final_km_s": float64(final.V.Norm()),
			}, 0)
	}

	return sc
}

// WriteScenarios writes the scenarios as indented JSON.
func WriteScenarios(w io.Writer, scenarios []Scenario) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scenarios)
}

// ReadScenarios parses a scenario set written by WriteScenarios or by the
// independent implementation.
func ReadScenarios(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario
	if err := json.NewDecoder(r).Decode(&scenarios); err != nil {
		return nil, fmt.Errorf("scenario decode: %w", err)
	}
	return scenarios, nil
}

// ExportScenarios writes the reference battery to the configured output
// directory and returns the file path.
func ExportScenarios() (string, error) {
	conf := orbitalConfig()
	path := filepath.Join(conf.outputDir, "xval-scenarios.json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteScenarios(f, ReferenceScenarios()); err != nil {
		return "", err
	}
	return path, nil
}

// Compare diffs two scenario sets. Every scenario and output of ref must be
// present in alt and agree within the scenario tolerance (or defaultTol
// when the scenario declares none). The returned list is empty on a passing
// run.
func Compare(ref, alt []Scenario, defaultTol float64) []Mismatch {
	if defaultTol <= 0 {
		defaultTol = defaultXValTol
	}
	byName := make(map[string]Scenario, len(alt))
	for _, s := range alt {
		byName[s.Name] = s
	}

	var mismatches []Mismatch
	for _, r := range ref {
		tol := r.RelTol
		if tol == 0 {
			tol = defaultTol
		}
		a, found := byName[r.Name]
		if !found {
			for out, val := range r.Outputs {
				mismatches = append(mismatches, Mismatch{r.Name, out, val, math.NaN(), tol})
			}
			continue
		}
		for out, want := range r.Outputs {
			got, there := a.Outputs[out]
			if !there {
				mismatches = append(mismatches, Mismatch{r.Name, out, want, math.NaN(), tol})
				continue
			}
			if !floats.EqualWithinRel(want, got, tol) && !floats.EqualWithinAbs(want, got, 1e-10) {
				mismatches = append(mismatches, Mismatch{r.Name, out, want, got, tol})
			}
		}
	}
	return mismatches
}

// Validate runs Compare and logs one PASS/FAIL line per scenario through
// the given logger. It returns an error when any scenario failed.
func Validate(ref, alt []Scenario, defaultTol float64, logger kitlog.Logger) error {
	mismatches := Compare(ref, alt, defaultTol)
	failed := make(map[string]bool, len(mismatches))
	for _, m := range mismatches {
		failed[m.Scenario] = true
		logger.Log("level", "warning", "subsys", "xval", "scenario", m.Scenario, "output", m.Output, "ref", fmt.Sprintf("%.15e", m.Ref), "got", fmt.Sprintf("%.15e", m.Got), "rtol", m.RelTol)
	}
	for _, r := range ref {
		status := "PASS"
		if failed[r.Name] {
			status = "FAIL"
		}
		logger.Log("level", "info", "subsys", "xval", "scenario", r.Name, "status", status)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("cross validation failed: %d outputs outside tolerance", len(mismatches))
	}
	return nil
}
