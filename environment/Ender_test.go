package environment

import (
	"testing"

	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestStepLimit(t *testing.T) {
	if _, err := NewStepLimit(0); err == nil {
		t.Error("newStepLimit: expected error for non-positive limit")
	}

	limit, err := NewStepLimit(10)
	if err != nil {
		t.Fatal(err)
	}

	obs := mat.NewVecDense(1, nil)
	for i := 0; i < 10; i++ {
		step := ts.New(ts.Mid, 0, 1, obs, i)
		if limit.End(&step) {
			t.Errorf("end: episode ended early at step %v", i)
		}
	}

	step := ts.New(ts.Mid, 0, 1, obs, 10)
	if !limit.End(&step) {
		t.Fatal("end: episode should end at step limit")
	}
	if !step.Last() {
		t.Error("end: step type should be Last")
	}
	if step.EndType() != ts.Timeout {
		t.Errorf("end: expected end type %v, got %v", ts.Timeout,
			step.EndType())
	}
}

func TestIntervalLimit(t *testing.T) {
	if _, err := NewIntervalLimit([]r1.Interval{{Min: 0, Max: 1}}, nil,
		ts.TerminalStateReached); err == nil {
		t.Error("newIntervalLimit: expected error for mismatched lengths")
	}

	limit, err := NewIntervalLimit([]r1.Interval{{Min: -1, Max: 1}},
		[]int{1}, ts.TerminalStateReached)
	if err != nil {
		t.Fatal(err)
	}

	inside := ts.New(ts.Mid, 0, 1, mat.NewVecDense(2, []float64{5, 0.5}), 1)
	if limit.End(&inside) {
		t.Error("end: feature within interval should not end episode")
	}

	outside := ts.New(ts.Mid, 0, 1, mat.NewVecDense(2, []float64{0, 1.5}), 1)
	if !limit.End(&outside) {
		t.Fatal("end: feature outside interval should end episode")
	}
	if outside.EndType() != ts.TerminalStateReached {
		t.Errorf("end: expected end type %v, got %v",
			ts.TerminalStateReached, outside.EndType())
	}
}

func TestFunctionEnder(t *testing.T) {
	ender := NewFunctionEnder(func(v *mat.VecDense) bool {
		return v.AtVec(0) > 0
	}, ts.TerminalStateReached)

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{-1}), 1)
	if ender.End(&step) {
		t.Error("end: function returned false but episode ended")
	}

	step = ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{1}), 1)
	if !ender.End(&step) || !step.Last() {
		t.Error("end: function returned true but episode did not end")
	}
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: -0.5, Max: 0.5}, {Min: 2, Max: 2}}
	starter, err := NewUniformStarter(bounds, 42)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		start := starter.Start()
		if start.Len() != 2 {
			t.Fatalf("start: expected 2 features, got %v", start.Len())
		}
		if start.AtVec(0) < -0.5 || start.AtVec(0) > 0.5 {
			t.Errorf("start: feature 0 = %v out of bounds", start.AtVec(0))
		}
		if start.AtVec(1) != 2 {
			t.Errorf("start: feature 1 = %v, expected 2", start.AtVec(1))
		}
	}

	if _, err := NewUniformStarter(nil, 0); err == nil {
		t.Error("newUniformStarter: expected error for no bounds")
	}
	if _, err := NewUniformStarter([]r1.Interval{{Min: 1, Max: 0}}, 0); err == nil {
		t.Error("newUniformStarter: expected error for inverted bound")
	}
}
