package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags
var Version = "0.1.0"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of cefrscope.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureColor(!noColor)
		fmt.Fprintf(cmd.OutOrStdout(), "cefrscope %s\n", color.New(color.FgGreen, color.Bold).Sprint("v"+Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
