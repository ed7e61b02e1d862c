package cli

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/internal/loggers"
	"github.com/samuelfneumann/envspec/internal/progressbar"
	"github.com/samuelfneumann/envspec/spec"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// tolerance for comparing rewards against their bounds
const tolerance = 1e-9

func newRolloutCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Take random actions and check rewards against the specification",
		Example: `
envspec rollout --env MountainCar --task Goal --steps 10000
envspec rollout --env Cartpole --task Balance --num-envs 8 --parallel
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := describe(v)
			if err != nil {
				return err
			}
			defer closeEnv(s)

			var logger *zap.Logger
			if dir := v.GetString(keyLogDir); dir != "" {
				logger, err = loggers.NewFileLogger("rollout", dir)
			} else {
				logger, err = loggers.NewZapLogger(v.GetBool(keyDebug))
			}
			if err != nil {
				return err
			}
			defer loggers.Sync(logger)

			runID := uuid.New().String()
			logger = logger.With(zap.String("run", runID))

			steps := v.GetInt(keySteps)
			bar := progressbar.New(cmd.ErrOrStderr(), 40, steps)
			summary, err := rollout(s, steps, logger, bar)
			bar.Close()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, aurora.BrightGreen(heading(s)))
			fmt.Fprintln(out, s)
			fmt.Fprintf(out, "Run: %v\n", runID)
			fmt.Fprintln(out, summary)
			if !summary.ok() {
				fmt.Fprintln(out, aurora.BrightRed("Rewards violated the "+
					"specification"))
				return fmt.Errorf("rollout: %v violations",
					summary.violations())
			}
			fmt.Fprintln(out, aurora.BrightGreen("Rewards are consistent with "+
				"the specification"))
			return nil
		},
	}

	cmd.Flags().Int(keySteps, 1000, "number of steps to take")
	_ = v.BindPFlag(keySteps, cmd.Flags().Lookup(keySteps))
	return cmd
}

// summary records the outcome of a rollout
type summary struct {
	steps            int
	episodes         int
	bestReturn       float64
	rewardViolations int
	returnViolations int
}

func (s summary) ok() bool {
	return s.violations() == 0
}

func (s summary) violations() int {
	return s.rewardViolations + s.returnViolations
}

func (s summary) String() string {
	best := fmt.Sprint(s.bestReturn)
	if s.episodes == 0 {
		best = "n/a"
	}
	return fmt.Sprintf("Steps: %v  |  Episodes: %v  |  Best return: %v  |  "+
		"Reward violations: %v  |  Return violations: %v", s.steps,
		s.episodes, best, s.rewardViolations, s.returnViolations)
}

// rollout takes steps random actions in the environment of s, checking
// that every reward lies in the reward range and that no episode's
// return exceeds the maximum episode reward
func rollout(s *spec.EnvSpec, steps int, logger *zap.Logger,
	bar *progressbar.ProgressBar) (summary, error) {
	stepFn, n, err := stepper(s)
	if err != nil {
		return summary{}, err
	}

	rewardRange := s.RewardRange()
	maxReturn := s.MaxEpisodeReward()
	returns := make([]float64, n)
	result := summary{bestReturn: math.Inf(-1)}

	for i := 0; i < steps; i++ {
		actions := make([]*mat.VecDense, n)
		for j := range actions {
			actions[j] = s.ActionSpace().Sample()
		}

		timeSteps, lasts, err := stepFn(actions)
		if err != nil {
			return summary{}, fmt.Errorf("rollout: %v", err)
		}
		result.steps++

		for j, step := range timeSteps {
			returns[j] += step.Reward
			if step.Reward < rewardRange.Min-tolerance ||
				step.Reward > rewardRange.Max+tolerance {
				result.rewardViolations++
				logger.Warn("reward outside reward range",
					zap.Int("env", j),
					zap.Float64("reward", step.Reward),
					zap.Float64("min", rewardRange.Min),
					zap.Float64("max", rewardRange.Max))
			}

			if !lasts[j] {
				continue
			}

			result.episodes++
			result.bestReturn = math.Max(result.bestReturn, returns[j])
			if returns[j] > maxReturn+tolerance {
				result.returnViolations++
				logger.Warn("return exceeds max episode reward",
					zap.Int("env", j),
					zap.Float64("return", returns[j]),
					zap.Float64("max", maxReturn))
			}

			logger.Info("episode finished",
				zap.Int("env", j),
				zap.Int("episode", result.episodes),
				zap.Int("steps", step.Number),
				zap.Float64("return", returns[j]),
				zap.Stringer("end", step.EndType()))
			returns[j] = 0
		}

		bar.Increment()
		bar.Display()
	}

	return result, nil
}

// stepper returns a function stepping the environment of s with one
// action per member and the number of members. The environment is
// reset before stepping.
func stepper(s *spec.EnvSpec) (func([]*mat.VecDense) ([]ts.TimeStep, []bool,
	error), int, error) {
	switch e := s.Env().(type) {
	case environment.VecEnv:
		if _, err := e.Reset(); err != nil {
			return nil, 0, fmt.Errorf("rollout: %v", err)
		}
		return e.Step, e.NumEnvs(), nil

	case environment.Environment:
		if _, err := e.Reset(); err != nil {
			return nil, 0, fmt.Errorf("rollout: %v", err)
		}
		step := func(actions []*mat.VecDense) ([]ts.TimeStep, []bool,
			error) {
			step, last, err := e.Step(actions[0])
			if err != nil {
				return nil, nil, err
			}
			if last {
				if _, err := e.Reset(); err != nil {
					return nil, nil, err
				}
			}
			return []ts.TimeStep{step}, []bool{last}, nil
		}
		return step, 1, nil
	}

	return nil, 0, fmt.Errorf("rollout: cannot step %T", s.Env())
}
