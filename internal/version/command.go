package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds the `version` subcommand to root.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long: `Print the thermostat version with its commit, build time and Go toolchain.

Release builds inject the commit and build time through ldflags; local builds
report the VCS stamp the Go toolchain embeds in the binary.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			line := Full()
			if short {
				line = Short()
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print the semantic version only")

	root.AddCommand(cmd)
}
