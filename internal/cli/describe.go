package cli

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDescribeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the specification of an environment",
		Example: `
envspec describe --env Pendulum --task SwingUp --continuous
envspec describe --config cartpole.yaml --num-envs 4
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := describe(v)
			if err != nil {
				return err
			}
			defer closeEnv(s)

			fmt.Fprintln(cmd.OutOrStdout(), aurora.BrightGreen(heading(s)))
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}
