// Package cli implements the envspec command line interface
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/envspec/environment/envconfig"
	"github.com/samuelfneumann/envspec/spec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys shared by flags, environment variables and viper
const (
	keyConfig     = "config"
	keyEnv        = "env"
	keyTask       = "task"
	keyContinuous = "continuous"
	keyCutoff     = "cutoff"
	keyDiscount   = "discount"
	keyNumEnvs    = "num-envs"
	keyParallel   = "parallel"
	keyGym        = "gym"
	keySeed       = "seed"
	keyDebug      = "debug"
	keyLogDir     = "log-dir"
	keySteps      = "steps"
)

// Candidate .env files, the first of which that exists is loaded
var envFiles = []string{
	".env",
	"../.env",
	"../../.env",
}

// Execute loads .env files and runs the root command
func Execute() {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command with its own viper instance.
// Flags may also be set through ENVSPEC_ prefixed environment
// variables, e.g. ENVSPEC_NUM_ENVS=4.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("envspec")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "envspec",
		Short:         "Describe and exercise reinforcement learning environments",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "environment config file (.json, .yaml)")
	flags.String(keyEnv, string(envconfig.Cartpole), "environment name")
	flags.String(keyTask, string(envconfig.Balance), "task name")
	flags.Bool(keyContinuous, false, "use continuous actions")
	flags.Int(keyCutoff, 500, "episode cutoff")
	flags.Float64(keyDiscount, 1.0, "discount factor")
	flags.Int(keyNumEnvs, 1, "number of environments to vectorize")
	flags.Bool(keyParallel, false, "step vectorized environments in parallel")
	flags.Bool(keyGym, false, "treat --env as an OpenAI Gym environment id")
	flags.Uint64(keySeed, 0, "random seed")
	flags.Bool(keyDebug, false, "enable development logging")
	flags.String(keyLogDir, "", "write logs to a rotated file in this directory")
	_ = v.BindPFlags(flags)

	rootCmd.AddCommand(newDescribeCmd(v), newRolloutCmd(v))
	return rootCmd
}

// loadConfig builds the environment config from the config file, if
// any, overridden by flags and environment variables
func loadConfig(v *viper.Viper) (envconfig.Config, error) {
	var c envconfig.Config
	if path := v.GetString(keyConfig); path != "" {
		var err error
		c, err = envconfig.Load(path)
		if err != nil {
			return envconfig.Config{}, err
		}
	} else {
		c = envconfig.NewConfig(envconfig.Cartpole, envconfig.Balance, false,
			500, 1.0, false)
	}

	fromFile := v.GetString(keyConfig) != ""
	override := func(key string) bool {
		return !fromFile || v.IsSet(key)
	}

	if override(keyEnv) {
		c.Environment = envconfig.EnvName(v.GetString(keyEnv))
	}
	if override(keyTask) {
		c.Task = envconfig.TaskName(v.GetString(keyTask))
	}
	if override(keyContinuous) {
		c.ContinuousActions = v.GetBool(keyContinuous)
	}
	if override(keyCutoff) {
		c.EpisodeCutoff = v.GetInt(keyCutoff)
	}
	if override(keyDiscount) {
		c.Discount = v.GetFloat64(keyDiscount)
	}
	if override(keyNumEnvs) {
		c.NumEnvs = v.GetInt(keyNumEnvs)
	}
	if override(keyParallel) {
		c.Parallel = v.GetBool(keyParallel)
	}
	if override(keyGym) {
		c.Gym = v.GetBool(keyGym)
	}

	if err := c.Validate(); err != nil {
		return envconfig.Config{}, err
	}
	return c, nil
}

// describe returns the specification of the configured environment
func describe(v *viper.Viper) (*spec.EnvSpec, error) {
	c, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	return c.Describe(v.GetUint64(keySeed))
}

// closeEnv closes the environment described by s if it holds resources
func closeEnv(s *spec.EnvSpec) {
	if closer, ok := s.Env().(io.Closer); ok {
		closer.Close()
	}
}

func heading(s *spec.EnvSpec) string {
	kind := "Environment"
	if s.Vectorized() {
		kind = "Vectorized environment"
	}
	return fmt.Sprintf("%v specification", kind)
}
