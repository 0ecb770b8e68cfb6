package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/mp3split"
	"github.com/simonhull/mp3split/internal/cli"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := mp3split.GetVersionInfo()
		if cmd.Flags().Changed("output") {
			format, err := cli.ParseOutputFormat(formatOutput)
			if err != nil {
				return err
			}
			return cli.Output(cmd.OutOrStdout(), info, format)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return err
	},
}
