package bridge

import (
	orbital "github.com/solarline/orbital"
)

func initialState(x, y, z, vx, vy, vz float64) orbital.State {
	return orbital.State{
		R: orbital.Vec3[orbital.Distance]{X: orbital.Distance(x), Y: orbital.Distance(y), Z: orbital.Distance(z)},
		V: orbital.Vec3[orbital.Velocity]{X: orbital.Velocity(vx), Y: orbital.Velocity(vy), Z: orbital.Velocity(vz)},
	}
}

// PropagateBallistic integrates a ballistic state with fixed-step RK4 and
// returns [xKm, yKm, zKm, vxKmS, vyKmS, vzKmS, elapsedSec, energyDrift].
func PropagateBallistic(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS, muKm3S2, dtSec, durationSec float64) ([8]float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return [8]float64{}, err
	}
	if err := positive("dtSec", dtSec); err != nil {
		return [8]float64{}, err
	}
	if err := positive("durationSec", durationSec); err != nil {
		return [8]float64{}, err
	}
	prop, err := orbital.NewPropagationWithGM(initialState(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS),
		orbital.GravParam(muKm3S2), orbital.Coast{}, orbital.Seconds(dtSec), orbital.Seconds(durationSec))
	if err != nil {
		return [8]float64{}, err
	}
	prop.Propagate()
	final := prop.State()
	_, drift := prop.EnergyDrift()
	return [8]float64{
		float64(final.R.X), float64(final.R.Y), float64(final.R.Z),
		float64(final.V.X), float64(final.V.Y), float64(final.V.Z),
		float64(prop.Elapsed()), drift,
	}, nil
}

// PropagateBrachistochrone integrates a flip-and-burn trajectory with
// fixed-step RK4 and returns [xKm, yKm, zKm, vxKmS, vyKmS, vzKmS,
// elapsedSec].
func PropagateBrachistochrone(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS, muKm3S2, dtSec, durationSec, accelKmS2, flipTimeSec float64) ([7]float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return [7]float64{}, err
	}
	if err := positive("dtSec", dtSec); err != nil {
		return [7]float64{}, err
	}
	if err := positive("durationSec", durationSec); err != nil {
		return [7]float64{}, err
	}
	if err := positive("accelKmS2", accelKmS2); err != nil {
		return [7]float64{}, err
	}
	if err := positive("flipTimeSec", flipTimeSec); err != nil {
		return [7]float64{}, err
	}
	profile := orbital.Brachistochrone{Accel: accelKmS2, FlipTime: orbital.Seconds(flipTimeSec)}
	prop, err := orbital.NewPropagationWithGM(initialState(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS),
		orbital.GravParam(muKm3S2), profile, orbital.Seconds(dtSec), orbital.Seconds(durationSec))
	if err != nil {
		return [7]float64{}, err
	}
	prop.Propagate()
	final := prop.State()
	return [7]float64{
		float64(final.R.X), float64(final.R.Y), float64(final.R.Z),
		float64(final.V.X), float64(final.V.Y), float64(final.V.Z),
		float64(prop.Elapsed()),
	}, nil
}

// PropagateAdaptiveBallistic integrates a ballistic state with the embedded
// RKF45 scheme and returns [xKm, yKm, zKm, vxKmS, vyKmS, vzKmS, elapsedSec,
// energyDrift, evals].
func PropagateAdaptiveBallistic(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS, muKm3S2, durationSec, relTol, absTol float64) ([9]float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return [9]float64{}, err
	}
	if err := positive("durationSec", durationSec); err != nil {
		return [9]float64{}, err
	}
	if err := positive("relTol", relTol); err != nil {
		return [9]float64{}, err
	}
	if err := positive("absTol", absTol); err != nil {
		return [9]float64{}, err
	}
	prop, err := orbital.NewPropagationWithGM(initialState(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS),
		orbital.GravParam(muKm3S2), orbital.Coast{}, orbital.DefaultStep, orbital.Seconds(durationSec))
	if err != nil {
		return [9]float64{}, err
	}
	if err := prop.PropagateAdaptive(relTol, absTol); err != nil {
		return [9]float64{}, err
	}
	final := prop.State()
	_, drift := prop.EnergyDrift()
	return [9]float64{
		float64(final.R.X), float64(final.R.Y), float64(final.R.Z),
		float64(final.V.X), float64(final.V.Y), float64(final.V.Z),
		float64(prop.Elapsed()), drift, float64(prop.Stats().Evals),
	}, nil
}

// PropagateTrajectory integrates a ballistic state with fixed-step RK4,
// sampling every sampleEvery accepted steps, and returns a flat array
// [t0, x0, y0, z0, t1, x1, y1, z1, ...] including the initial and final
// points.
func PropagateTrajectory(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS, muKm3S2, dtSec, durationSec float64, sampleEvery uint64) ([]float64, error) {
	if err := positive("muKm3S2", muKm3S2); err != nil {
		return nil, err
	}
	if err := positive("dtSec", dtSec); err != nil {
		return nil, err
	}
	if err := positive("durationSec", durationSec); err != nil {
		return nil, err
	}
	if sampleEvery == 0 {
		sampleEvery = 1
	}
	prop, err := orbital.NewPropagationWithGM(initialState(xKm, yKm, zKm, vxKmS, vyKmS, vzKmS),
		orbital.GravParam(muKm3S2), orbital.Coast{}, orbital.Seconds(dtSec), orbital.Seconds(durationSec))
	if err != nil {
		return nil, err
	}
	prop.SampleEvery(sampleEvery)
	prop.Propagate()

	samples := prop.Samples()
	out := make([]float64, 0, 4*(len(samples)+1))
	for _, s := range samples {
		out = append(out, float64(s.T), float64(s.S.R.X), float64(s.S.R.Y), float64(s.S.R.Z))
	}
	final := prop.State()
	if len(samples) == 0 || samples[len(samples)-1].T != prop.Elapsed() {
		out = append(out, float64(prop.Elapsed()), float64(final.R.X), float64(final.R.Y), float64(final.R.Z))
	}
	return out, nil
}
