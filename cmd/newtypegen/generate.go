package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/refaktor/newtypegen/binder"
	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/loader"
)

var (
	optOutput string
	optStats  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate bindings (default command)",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var errCheckFailed = errors.New("generated output differs")

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check that a file matches the generated bindings",
	Long: `Regenerate the bindings and compare them with an existing file.

Exits with status 1 if the file is out of date.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	generateCmd.Flags().StringVarP(&optConfig, "config", "c", "", "config file")
	generateCmd.Flags().StringVarP(&optOutput, "output", "o", "", "output file (default: stdout)")
	generateCmd.Flags().BoolVar(&optStats, "stats", false, "print binding stats to stderr")
	checkCmd.Flags().StringVarP(&optConfig, "config", "c", "", "config file")
}

func generate(ctx context.Context) (*binder.Output, error) {
	if optConfig == "" {
		return nil, errors.WithHint(errors.New("no config file given"), "pass one with -c")
	}
	cfg, err := config.Load(optConfig)
	if err != nil {
		return nil, err
	}
	docs, err := loader.Load(ctx, &loader.Config{
		Paths:  optJSON,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	return binder.Generate(cfg, binder.Options{Logger: log}, docs...)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out, err := generate(cmd.Context())
	if err != nil {
		return err
	}
	if optStats {
		writeStats(os.Stderr, out)
	}
	if optOutput == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), out.Text)
		return err
	}
	return os.WriteFile(optOutput, []byte(out.Text), 0666)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out, err := generate(cmd.Context())
	if err != nil {
		return err
	}
	have, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if line, ok := firstDiff(have, []byte(out.Text)); !ok {
		return errors.WithHint(
			errors.Wrapf(errCheckFailed, "%v: line %v", args[0], line),
			"regenerate the file with `newtypegen generate`",
		)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%v is up to date\n", args[0])
	return nil
}

// firstDiff returns the 1-based number of the first line that
// differs between a and b. ok is true if a and b are equal.
func firstDiff(a, b []byte) (line int, ok bool) {
	if bytes.Equal(a, b) {
		return 0, true
	}
	al := strings.Split(string(a), "\n")
	bl := strings.Split(string(b), "\n")
	for i := range min(len(al), len(bl)) {
		if al[i] != bl[i] {
			return i + 1, false
		}
	}
	return min(len(al), len(bl)) + 1, false
}
