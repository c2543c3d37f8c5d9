// Command newtypegen generates the scripting bindings macro
// invocation for the types named in a config file.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/logger"
)

var (
	optJSON    []string
	optConfig  string
	optVerbose bool

	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "newtypegen",
	Short: "Generate scripting bindings for native types",
	Long: `Generate the bindings macro invocation for the types named in a config file.

Type information is read from rustdoc JSON documents
("rustdoc --output-format json"), one per crate.

Examples:
  newtypegen -j bevy_math.json -c bindings.toml > bindings.rs
  newtypegen init -j bevy_math.json -o bindings.toml
  newtypegen check -j bevy_math.json -c bindings.toml bindings.rs`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(os.Stderr, logger.WARN)
		if optVerbose {
			log.SetMinLevel(logger.INFO)
		}
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&optJSON, "json", "j", nil, "rustdoc JSON document (repeatable, in priority order)")
	rootCmd.PersistentFlags().BoolVarP(&optVerbose, "verbose", "v", false, "log informational messages")
	rootCmd.Flags().StringVarP(&optConfig, "config", "c", "", "config file")
	rootCmd.Flags().StringVarP(&optOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().BoolVar(&optStats, "stats", false, "print binding stats to stderr")

	rootCmd.AddCommand(generateCmd, checkCmd, initCmd)
}

func main() {
	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		if cErr := (&config.Error{}); errors.As(err, &cErr) {
			fmt.Fprintln(os.Stderr, cErr.String())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
			if hints := errors.FlattenHints(err); hints != "" {
				fmt.Fprintln(os.Stderr, "Hint:", hints)
			}
		}
		os.Exit(1)
	}
}
