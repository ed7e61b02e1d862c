package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/pendulum"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// CreateMountainCar is a factory for creating the MountainCar
// environment with default physical parameters and default task
// parameters.
func CreateMountainCar(continuousActions bool, taskName TaskName, cutoff int,
	seed uint64, discount float64) (env.Environment, ts.TimeStep, error) {
	position := r1.Interval{Min: -0.6, Max: -0.4}
	velocity := r1.Interval{Min: 0.0, Max: 0.0}

	s, err := env.NewUniformStarter([]r1.Interval{position, velocity}, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createMountainCar: %v", err)
	}

	var task env.Task
	switch taskName {
	case Goal:
		task, err = mountaincar.NewGoal(s, cutoff, mountaincar.GoalPosition)

	default:
		err = fmt.Errorf("MountainCar environment has no task %v", taskName)
	}
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createMountainCar: %v", err)
	}

	if continuousActions {
		return mountaincar.NewContinuous(task, discount, seed)
	}
	return mountaincar.NewDiscrete(task, discount, seed)
}

// CreateCartpole is a factory for creating the Cartpole environment
// with default physical parameters and default task parameters.
func CreateCartpole(continuousActions bool, taskName TaskName, cutoff int,
	seed uint64, discount float64) (env.Environment, ts.TimeStep, error) {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s, err := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %v", err)
	}

	var task env.Task
	switch taskName {
	case Balance:
		task, err = cartpole.NewBalance(s, cutoff, cartpole.FailAngle)

	default:
		err = fmt.Errorf("Cartpole environment has no task %v", taskName)
	}
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %v", err)
	}

	if continuousActions {
		return cartpole.NewContinuous(task, discount, seed)
	}
	return cartpole.NewDiscrete(task, discount, seed)
}

// CreatePendulum is a factory for creating the Pendulum environment
// with default physical parameters and default task parameters.
func CreatePendulum(continuousActions bool, taskName TaskName,
	cutoff int, seed uint64, discount float64) (env.Environment, ts.TimeStep,
	error) {
	angle := r1.Interval{Min: -pendulum.AngleBound, Max: pendulum.AngleBound}
	speed := r1.Interval{Min: -1.0, Max: 1.0}

	s, err := env.NewUniformStarter([]r1.Interval{angle, speed}, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createPendulum: %v", err)
	}

	var task env.Task
	switch taskName {
	case SwingUp:
		task, err = pendulum.NewSwingUp(s, cutoff)

	default:
		err = fmt.Errorf("Pendulum environment has no task %v", taskName)
	}
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createPendulum: %v", err)
	}

	if continuousActions {
		return pendulum.NewContinuous(task, discount, seed)
	}
	return pendulum.NewDiscrete(task, discount, seed)
}

// CreateAcrobot is a factory for creating the Acrobot environment with
// default physical parameters and default task parameters.
func CreateAcrobot(continuousActions bool, taskName TaskName, cutoff int,
	seed uint64, discount float64) (env.Environment, ts.TimeStep, error) {
	bounds := r1.Interval{Min: -0.1, Max: 0.1}
	s, err := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createAcrobot: %v", err)
	}

	var task env.Task
	switch taskName {
	case SwingUp:
		task, err = acrobot.NewSwingUp(s, cutoff, acrobot.GoalHeight)

	default:
		err = fmt.Errorf("Acrobot environment has no task %v", taskName)
	}
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createAcrobot: %v", err)
	}

	if continuousActions {
		return acrobot.NewContinuous(task, discount, seed)
	}
	return acrobot.NewDiscrete(task, discount, seed)
}
