package orbital

import (
	"fmt"
	"math"
	"os"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

/* Handles the numerical propagations. */

const (
	// DefaultStep is the default fixed integration step.
	DefaultStep Seconds = 10
	// progradeεV is the speed under which the prograde direction is
	// undefined and thrust is not applied.
	progradeεV = 1e-15
	// stopε absorbs rounding when comparing elapsed time to the horizon.
	stopε = 1e-9
)

// Adaptive stepping bounds. The step cap keeps any single run bounded no
// matter how tight the tolerances are.
const (
	adaptiveMinStep  = 1e-3  // s
	adaptiveMaxStep  = 86400 // s
	adaptiveMaxSteps = 1 << 22
	adaptiveSafety   = 0.9
)

// ThrustType defines the type of a thrust profile.
type ThrustType uint8

const (
	coastThrust ThrustType = iota
	progradeThrust
	brachistochroneThrust
)

// String implements the Stringer interface.
func (t ThrustType) String() string {
	switch t {
	case coastThrust:
		return "coast"
	case progradeThrust:
		return "prograde"
	case brachistochroneThrust:
		return "brachistochrone"
	}
	panic("unknown thrust profile")
}

// ThrustProfile determines the continuous thrust acceleration applied on top
// of two-body gravity. Vehicle mass is assumed constant over the propagation
// (electric propulsion approximation).
type ThrustProfile interface {
	// Control returns the thrust acceleration vector in km/s² at elapsed
	// time t given the current inertial velocity.
	Control(t Seconds, V []float64) []float64
	Type() ThrustType
}

// Coast applies no thrust: pure ballistic Keplerian motion.
type Coast struct{}

// Control implements the ThrustProfile interface.
func (Coast) Control(t Seconds, V []float64) []float64 {
	return []float64{0, 0, 0}
}

// Type implements the ThrustProfile interface.
func (Coast) Type() ThrustType { return coastThrust }

// ConstantPrograde thrusts along the velocity at a constant acceleration.
type ConstantPrograde struct {
	Accel float64 // km/s²
}

// Control implements the ThrustProfile interface.
func (cl ConstantPrograde) Control(t Seconds, V []float64) []float64 {
	return progradeAccel(cl.Accel, V)
}

// Type implements the ThrustProfile interface.
func (cl ConstantPrograde) Type() ThrustType { return progradeThrust }

// Brachistochrone thrusts prograde until FlipTime and retrograde after it,
// the flip-and-burn profile matching BrachistochroneAccel.
type Brachistochrone struct {
	Accel    float64 // km/s²
	FlipTime Seconds
}

// Control implements the ThrustProfile interface.
func (cl Brachistochrone) Control(t Seconds, V []float64) []float64 {
	if t < cl.FlipTime {
		return progradeAccel(cl.Accel, V)
	}
	return progradeAccel(-cl.Accel, V)
}

// Type implements the ThrustProfile interface.
func (cl Brachistochrone) Type() ThrustType { return brachistochroneThrust }

func progradeAccel(a float64, V []float64) []float64 {
	if norm(V) < progradeεV {
		return []float64{0, 0, 0}
	}
	u := unit(V)
	return []float64{a * u[0], a * u[1], a * u[2]}
}

// IntegrationStats counts the work done by a propagation.
type IntegrationStats struct {
	Steps    uint64 // accepted steps
	Rejected uint64 // adaptive steps redone with a smaller h
	Evals    uint64 // derivative evaluations
}

// Sample is a trajectory point recorded during propagation.
type Sample struct {
	T Seconds
	S State
}

// Propagation integrates a state under two-body gravity of the origin body
// plus an optional thrust profile. It implements ode.Integrable.
type Propagation struct {
	state       State
	μ           GravParam
	originName  string
	bodyRadius  Distance // 0 disables the collision check
	profile     ThrustProfile
	step        Seconds
	horizon     Seconds
	elapsed     float64
	ξ0          float64
	maxDrift    float64
	stats       IntegrationStats
	sampleEvery uint64
	samples     []Sample
	collided    bool
	logger      kitlog.Logger
}

// NewPropagation returns a propagation of the given initial state around
// origin for the given horizon. The fixed step is only used by Propagate,
// not by PropagateAdaptive.
func NewPropagation(initial State, origin Body, profile ThrustProfile, step, horizon Seconds) (*Propagation, error) {
	p, err := NewPropagationWithGM(initial, origin.GM(), profile, step, horizon)
	if err != nil {
		return nil, err
	}
	p.originName = origin.String()
	p.bodyRadius = origin.Radius()
	p.logger = kitlog.With(p.logger, "origin", p.originName)
	return p, nil
}

// NewPropagationWithGM is the same as NewPropagation for a bare
// gravitational parameter. Without a named origin there is no collision
// check.
func NewPropagationWithGM(initial State, μ GravParam, profile ThrustProfile, step, horizon Seconds) (*Propagation, error) {
	if μ <= 0 {
		return nil, QuantityError{"μ(km^3/s^2)", float64(μ), "must be positive"}
	}
	if step <= 0 {
		return nil, QuantityError{"step(s)", float64(step), "must be positive"}
	}
	if horizon <= 0 {
		return nil, QuantityError{"horizon(s)", float64(horizon), "must be positive"}
	}
	if profile == nil {
		profile = Coast{}
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "subsys", "prop", "profile", profile.Type().String())
	p := &Propagation{state: initial, μ: μ, profile: profile, step: step, horizon: horizon, logger: klog}
	p.ξ0 = p.specificEnergy(initial)
	return p, nil
}

// SampleEvery records one trajectory sample every n accepted steps. Zero
// disables sampling (the default).
func (p *Propagation) SampleEvery(n uint64) {
	p.sampleEvery = n
	if n > 0 && len(p.samples) == 0 {
		p.samples = append(p.samples, Sample{0, p.state})
	}
}

// Samples returns the recorded trajectory, including the initial state.
func (p *Propagation) Samples() []Sample { return p.samples }

// State returns the current state.
func (p *Propagation) State() State { return p.state }

// Elapsed returns the elapsed propagation time.
func (p *Propagation) Elapsed() Seconds { return Seconds(p.elapsed) }

// Stats returns the integration statistics so far.
func (p *Propagation) Stats() IntegrationStats { return p.stats }

func (p *Propagation) specificEnergy(s State) float64 {
	v := float64(s.V.Norm())
	r := float64(s.R.Norm())
	return v*v/2 - float64(p.μ)/r
}

// EnergyDrift returns the maximum and final relative drift of the specific
// orbital energy since the start. Only meaningful for coasting propagations,
// thrust legitimately changes the energy.
func (p *Propagation) EnergyDrift() (maxRel, finalRel float64) {
	finalRel = p.relDrift(p.specificEnergy(p.state))
	return p.maxDrift, finalRel
}

func (p *Propagation) relDrift(ξ float64) float64 {
	if math.Abs(p.ξ0) > 1e-30 {
		return math.Abs((ξ - p.ξ0) / p.ξ0)
	}
	return math.Abs(ξ - p.ξ0)
}

// LogStatus logs the status of the propagation.
func (p *Propagation) LogStatus(status string) {
	p.logger.Log("level", "info", "subsys", "astro", "status", status, "elapsed(s)", p.elapsed, "r(km)", float64(p.state.R.Norm()), "v(km/s)", float64(p.state.V.Norm()))
}

// Propagate runs the fixed-step RK4 integration until the horizon. The last
// step is shortened so the horizon is hit exactly.
func (p *Propagation) Propagate() {
	p.LogStatus("started")
	if float64(p.horizon) >= float64(p.step) {
		ode.NewRK4(0, float64(p.step), p).Solve() // Blocking.
	}
	if rem := float64(p.horizon) - p.elapsed; rem > stopε {
		s := p.rk4Step(p.elapsed, rem, p.GetState())
		p.elapsed = float64(p.horizon)
		p.SetState(p.elapsed, s)
	}
	p.LogStatus("finished")
}

// Stop implements the stop call of the integrator.
func (p *Propagation) Stop(t float64) bool {
	if float64(p.horizon)-p.elapsed < float64(p.step)-stopε {
		return true
	}
	p.elapsed += float64(p.step)
	return false
}

// GetState returns the state for the integrator.
func (p *Propagation) GetState() (s []float64) {
	s = make([]float64, 6)
	copy(s[0:3], p.state.R.Slice())
	copy(s[3:6], p.state.V.Slice())
	return
}

// SetState sets the updated state.
func (p *Propagation) SetState(t float64, s []float64) {
	p.state = State{Vec3FromSlice[Distance](s[0:3]), Vec3FromSlice[Velocity](s[3:6])}
	p.stats.Steps++

	if p.profile.Type() == coastThrust {
		if drift := p.relDrift(p.specificEnergy(p.state)); drift > p.maxDrift {
			p.maxDrift = drift
		}
	}
	if p.sampleEvery > 0 && p.stats.Steps%p.sampleEvery == 0 {
		p.samples = append(p.samples, Sample{Seconds(p.elapsed), p.state})
	}

	// Collision sanity check, with a 10% dead zone before reporting a
	// revival, as a crossing trajectory triggers both warnings per orbit.
	if p.bodyRadius <= 0 {
		return
	}
	rNorm := float64(p.state.R.Norm())
	bodyRadius := float64(p.bodyRadius)
	if !p.collided && rNorm < bodyRadius {
		p.collided = true
		p.logger.Log("level", "critical", "subsys", "astro", "collided", p.originName, "elapsed(s)", p.elapsed, "r", rNorm, "radius", bodyRadius)
	} else if p.collided && rNorm > bodyRadius*1.1 {
		p.collided = false
		p.logger.Log("level", "critical", "subsys", "astro", "revived", p.originName, "elapsed(s)", p.elapsed)
	}
}

// Func is the two-body integration function.
func (p *Propagation) Func(t float64, f []float64) (fDot []float64) {
	p.stats.Evals++
	fDot = make([]float64, 6)
	r := norm(f[0:3])
	bodyAcc := -float64(p.μ) / (r * r * r)
	Δv := p.profile.Control(Seconds(t), f[3:6])
	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	fDot[3] = bodyAcc*f[0] + Δv[0]
	fDot[4] = bodyAcc*f[1] + Δv[1]
	fDot[5] = bodyAcc*f[2] + Δv[2]
	for i := 0; i < 6; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ t=%f r=%f", i, t, r))
		}
	}
	return
}

// rk4Step performs a single classical RK4 step of size dt at time t and
// returns the new state. Used to shorten the final fixed step.
func (p *Propagation) rk4Step(t, dt float64, s []float64) []float64 {
	n := len(s)
	k1 := p.Func(t, s)
	s2 := make([]float64, n)
	for i := range s {
		s2[i] = s[i] + dt/2*k1[i]
	}
	k2 := p.Func(t+dt/2, s2)
	s3 := make([]float64, n)
	for i := range s {
		s3[i] = s[i] + dt/2*k2[i]
	}
	k3 := p.Func(t+dt/2, s3)
	s4 := make([]float64, n)
	for i := range s {
		s4[i] = s[i] + dt*k3[i]
	}
	k4 := p.Func(t+dt, s4)
	out := make([]float64, n)
	for i := range s {
		out[i] = s[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

// PropagateAdaptive runs an embedded Runge-Kutta-Fehlberg 4(5) integration
// until the horizon, controlling the local error against the given relative
// and absolute tolerances. The propagation advances on the fifth order
// solution.
func (p *Propagation) PropagateAdaptive(relTol, absTol float64) error {
	if relTol <= 0 || absTol <= 0 {
		return QuantityError{"tolerance", math.Min(relTol, absTol), "must be positive"}
	}
	p.LogStatus("started")
	t := 0.0
	h := math.Min(float64(p.horizon)/100, adaptiveMaxStep)
	if h < adaptiveMinStep {
		h = adaptiveMinStep
	}
	s := p.GetState()

	for steps := 0; t < float64(p.horizon)-stopε; steps++ {
		if steps >= adaptiveMaxSteps {
			return fmt.Errorf("adaptive integration exceeded %d steps (t=%f of %f)", adaptiveMaxSteps, t, float64(p.horizon))
		}
		if t+h > float64(p.horizon) {
			h = float64(p.horizon) - t
		}
		s5, errNorm := p.rkf45Step(t, h, s, relTol, absTol)
		if errNorm <= 1 || h <= adaptiveMinStep {
			t += h
			s = s5
			p.elapsed = t
			p.SetState(t, s)
		} else {
			p.stats.Rejected++
		}
		// Standard fifth order controller, clamped to [0.1, 4].
		factor := adaptiveSafety * math.Pow(errNorm, -0.2)
		if factor < 0.1 {
			factor = 0.1
		} else if factor > 4 {
			factor = 4
		}
		h *= factor
		if h < adaptiveMinStep {
			h = adaptiveMinStep
		} else if h > adaptiveMaxStep {
			h = adaptiveMaxStep
		}
	}
	p.LogStatus("finished")
	return nil
}

// Fehlberg 4(5) tableau.
var (
	rkfC = [6]float64{0, 1. / 4, 3. / 8, 12. / 13, 1, 1. / 2}
	rkfA = [6][5]float64{
		{},
		{1. / 4},
		{3. / 32, 9. / 32},
		{1932. / 2197, -7200. / 2197, 7296. / 2197},
		{439. / 216, -8, 3680. / 513, -845. / 4104},
		{-8. / 27, 2, -3544. / 2565, 1859. / 4104, -11. / 40},
	}
	rkfB4 = [6]float64{25. / 216, 0, 1408. / 2565, 2197. / 4104, -1. / 5, 0}
	rkfB5 = [6]float64{16. / 135, 0, 6656. / 12825, 28561. / 56430, -9. / 50, 2. / 55}
)

// rkf45Step performs one embedded RKF45 step and returns the fifth order
// solution along with the scaled error norm.
func (p *Propagation) rkf45Step(t, h float64, s []float64, relTol, absTol float64) ([]float64, float64) {
	n := len(s)
	var k [6][]float64
	for stage := 0; stage < 6; stage++ {
		sStage := make([]float64, n)
		copy(sStage, s)
		for j := 0; j < stage; j++ {
			for i := 0; i < n; i++ {
				sStage[i] += h * rkfA[stage][j] * k[j][i]
			}
		}
		k[stage] = p.Func(t+rkfC[stage]*h, sStage)
	}

	s4 := make([]float64, n)
	s5 := make([]float64, n)
	for i := 0; i < n; i++ {
		d4, d5 := 0.0, 0.0
		for stage := 0; stage < 6; stage++ {
			d4 += rkfB4[stage] * k[stage][i]
			d5 += rkfB5[stage] * k[stage][i]
		}
		s4[i] = s[i] + h*d4
		s5[i] = s[i] + h*d5
	}

	errNorm := 0.0
	for i := 0; i < n; i++ {
		sc := absTol + relTol*math.Max(math.Abs(s[i]), math.Abs(s5[i]))
		e := (s5[i] - s4[i]) / sc
		errNorm += e * e
	}
	return s5, math.Sqrt(errNorm / float64(n))
}

// CircularState returns the state of a circular orbit of the given radius in
// the XY plane, at (r, 0, 0) moving along +Y.
func CircularState(μ GravParam, r Distance) State {
	vCirc := math.Sqrt(float64(μ) / float64(r))
	return State{
		Vec3[Distance]{r, 0, 0},
		Vec3[Velocity]{0, Velocity(vCirc), 0},
	}
}

// PeriapsisState returns the state at periapsis of an elliptical orbit of
// semi-major axis a and eccentricity e in the XY plane.
func PeriapsisState(μ GravParam, a Distance, e Eccentricity) State {
	rP := float64(a) * (1 - float64(e))
	vP := math.Sqrt(float64(μ) * (2/rP - 1/float64(a)))
	return State{
		Vec3[Distance]{Distance(rP), 0, 0},
		Vec3[Velocity]{0, Velocity(vP), 0},
	}
}
