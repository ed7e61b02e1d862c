package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/envspec/environment/spaces"
	"github.com/samuelfneumann/envspec/internal/progressbar"
	"github.com/samuelfneumann/envspec/spec"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func run(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "Environment specification")
	assert.Contains(t, out, "<EnvSpec, Cartpole-Discrete>")
	assert.Contains(t, out, "Control type: Discrete")
	assert.Contains(t, out, "T: 500")

	out, err = run(t, "describe", "--env", "Pendulum", "--task", "SwingUp",
		"--continuous", "--cutoff", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Control type: Continuous")
	assert.Contains(t, out, "T: 200")
	assert.Contains(t, out, "Reward range: (-1, 1)")

	_, err = run(t, "describe", "--env", "Pendulum", "--task", "Balance")
	assert.Error(t, err)
}

func TestDescribeConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mountaincar.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: MountainCar
task: Goal
continuousActions: true
episodeCutoff: 300
discount: 0.99
`), 0o600))

	out, err := run(t, "describe", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "MountainCar-Continuous")
	assert.Contains(t, out, "T: 300")

	// Flags override the file
	out, err = run(t, "describe", "--config", path, "--cutoff", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "MountainCar-Continuous")
	assert.Contains(t, out, "T: 42")
}

func TestDescribeEnvironmentVariables(t *testing.T) {
	t.Setenv("ENVSPEC_NUM_ENVS", "3")
	t.Setenv("ENVSPEC_PARALLEL", "true")

	out, err := run(t, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "Vectorized environment specification")
	assert.Contains(t, out, "Parallel(3 x Cartpole-Discrete)")
}

func TestRolloutCommand(t *testing.T) {
	logDir := t.TempDir()
	out, err := run(t, "rollout", "--env", "MountainCar", "--task", "Goal",
		"--cutoff", "50", "--steps", "300", "--log-dir", logDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Episodes: 6")
	assert.Contains(t, out, "Run: ")
	assert.Contains(t, out, "consistent with the specification")

	logs, err := filepath.Glob(filepath.Join(logDir, "rollout-*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "episode finished")
}

// liar reports a reward range and maximum return which its rewards
// exceed
type liar struct {
	obs, act spaces.Space
	step     ts.TimeStep
}

func newLiar(t *testing.T) *liar {
	obs, err := spaces.NewBoxScalar(0, 1, 1, 0)
	require.NoError(t, err)
	act, err := spaces.NewDiscrete(2, 0)
	require.NoError(t, err)
	return &liar{obs: obs, act: act}
}

func (l *liar) ObservationSpace() spaces.Space { return l.obs }
func (l *liar) ActionSpace() spaces.Space      { return l.act }
func (l *liar) T() int                         { return 2 }
func (l *liar) MaxEpisodeReward() float64      { return 1.0 }
func (l *liar) RewardRange() r1.Interval       { return r1.Interval{Min: -1, Max: 1} }
func (l *liar) DiscountSpec() float64          { return 1.0 }
func (l *liar) CurrentTimeStep() ts.TimeStep   { return l.step }

func (l *liar) Reset() (ts.TimeStep, error) {
	l.step = ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0)
	return l.step, nil
}

func (l *liar) Step(*mat.VecDense) (ts.TimeStep, bool, error) {
	l.step = ts.New(ts.Mid, 2, 1, mat.NewVecDense(1, nil), l.step.Number+1)
	if l.step.Number >= 2 {
		l.step.StepType = ts.Last
		l.step.SetEnd(ts.Timeout)
	}
	return l.step, l.step.Last(), nil
}

func TestRollout(t *testing.T) {
	s, err := spec.New(newLiar(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	result, err := rollout(s, 4, zap.NewNop(), progressbar.New(&buf, 10, 4))
	require.NoError(t, err)

	assert.Equal(t, 4, result.steps)
	assert.Equal(t, 2, result.episodes)
	assert.Equal(t, 4.0, result.bestReturn)
	assert.Equal(t, 4, result.rewardViolations)
	assert.Equal(t, 2, result.returnViolations)
	assert.False(t, result.ok())
	assert.Contains(t, buf.String(), "100.00%")
}
