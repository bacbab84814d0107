// Package cli wires the command-line interface of the clinical search
// server.
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "context-search",
	Short: "Clinical search engine with ConText-aware scoring",
	Long: `context-search is a search engine for clinical narrative text.

Documents are annotated at index time with contextual properties of each
term occurrence (negation, uncertainty, historicity, and experiencer),
and queries score matches through a configurable weight table so that,
for example, "denies chest pain" ranks below an affirmed mention of
chest pain.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("context-search v0.3.0")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(versionCmd)
}
