package pendulum

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/spec"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newTask(t *testing.T, steps int) *SwingUp {
	bounds := []r1.Interval{{Min: -math.Pi, Max: math.Pi}, {Min: -1, Max: 1}}
	starter, err := env.NewUniformStarter(bounds, 5)
	if err != nil {
		t.Fatal(err)
	}

	task, err := NewSwingUp(starter, steps)
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func TestDiscrete(t *testing.T) {
	p, _, err := NewDiscrete(newTask(t, 50), 0.9, 5)
	if err != nil {
		t.Fatal(err)
	}

	s, err := spec.New(p)
	if err != nil {
		t.Fatal(err)
	}
	if control, err := s.ControlType(); err != nil ||
		control != spec.Discrete {
		t.Errorf("controlType: expected %v, got %v (%v)", spec.Discrete,
			control, err)
	}
	if s.T() != 50 || s.MaxEpisodeReward() != 50 {
		t.Errorf("expected T = 50 and max episode reward = 50, got %v "+
			"and %v", s.T(), s.MaxEpisodeReward())
	}

	if _, _, err := p.Step(mat.NewVecDense(1, []float64{5})); err == nil {
		t.Error("step: expected error for illegal action")
	}

	var step ts.TimeStep
	var last bool
	for !last {
		step, last, err = p.Step(p.ActionSpace().Sample())
		if err != nil {
			t.Fatal(err)
		}

		obs := step.Observation
		if !p.ObservationSpace().Contains(obs) {
			t.Errorf("step: observation %v outside observation space",
				obs.RawVector().Data)
		}
		if want := math.Cos(obs.AtVec(0)); step.Reward != want {
			t.Errorf("step: expected reward %v, got %v", want, step.Reward)
		}
	}

	if step.Number != 50 || step.EndType() != ts.Timeout {
		t.Errorf("step: expected timeout at step 50, got %v at step %v",
			step.EndType(), step.Number)
	}
}

func TestContinuousClipsSpeed(t *testing.T) {
	p, _, err := NewContinuous(newTask(t, 500), 1.0, 5)
	if err != nil {
		t.Fatal(err)
	}

	if control, err := func() (spec.ControlType, error) {
		s, err := spec.New(p)
		if err != nil {
			return "", err
		}
		return s.ControlType()
	}(); err != nil || control != spec.Continuous {
		t.Errorf("controlType: expected %v, got %v (%v)", spec.Continuous,
			control, err)
	}

	// Torques larger than the bound are clipped
	for i := 0; i < 200; i++ {
		step, _, err := p.Step(mat.NewVecDense(1, []float64{100}))
		if err != nil {
			t.Fatal(err)
		}
		if speed := step.Observation.AtVec(1); math.Abs(speed) > SpeedBound {
			t.Fatalf("step: speed %v exceeds bound %v", speed, SpeedBound)
		}
	}
}

func TestNilAction(t *testing.T) {
	d, _, err := NewDiscrete(newTask(t, 10), 1.0, 1)
	if err != nil {
		t.Fatal(err)
	}
	c, _, err := NewContinuous(newTask(t, 10), 1.0, 1)
	if err != nil {
		t.Fatal(err)
	}

	type stepper interface {
		Step(*mat.VecDense) (ts.TimeStep, bool, error)
	}
	for _, e := range []stepper{d, c} {
		if _, _, err := e.Step(nil); err == nil {
			t.Errorf("step: expected error for nil action in %v", e)
		}
	}
}
