package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the papertrade CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "papertrade version %s\n", version)
		fmt.Fprintln(out, "A paper-trading account with a trade journal and performance analytics")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
