package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/growthplan/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the growthplan build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.GetInfo()
		switch {
		case versionJSON:
			return writeJSON(cmd.OutOrStdout(), info)
		case versionVerbose:
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		default:
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "growthplan %s\n", info.Short())
			return err
		}
	},
}

var (
	versionVerbose bool
	versionJSON    bool
)

func init() {
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "include commit, build date, Go version and platform")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print the build as JSON")
	rootCmd.AddCommand(versionCmd)
}
