package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/refaktor/newtypegen/binder"
	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/loader"
	"github.com/refaktor/newtypegen/logger"
	"github.com/refaktor/newtypegen/typegraph"
)

var optInitOutput string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config",
	Long: `Write a starter config listing every struct and enum defined in
the given documents.

The generated config accepts all primitives the scripting runtime
can convert. Remove the types that should not be exposed.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&optInitOutput, "output", "o", "", "output file (default: stdout)")
}

func runInit(cmd *cobra.Command, args []string) error {
	if optInitOutput != "" {
		if _, err := os.Lstat(optInitOutput); err == nil {
			return errors.Newf("%q already exists", optInitOutput)
		}
	}
	docs, err := loader.Load(cmd.Context(), &loader.Config{
		Paths:  optJSON,
		Logger: log,
	})
	if err != nil {
		return err
	}

	var b bytes.Buffer
	if err := writeStarterConfig(&b, log, docs...); err != nil {
		return err
	}
	if optInitOutput == "" {
		_, err := io.Copy(cmd.OutOrStdout(), &b)
		return err
	}
	return os.WriteFile(optInitOutput, b.Bytes(), 0666)
}

// candidateNames returns the names of all bindable types in docs,
// sorted and without duplicates.
func candidateNames(docs ...*typegraph.Document) []string {
	var res []string
	for _, doc := range docs {
		idx := typegraph.NewIndex(doc)
		for _, id := range idx.IDs() {
			it := doc.Index[id]
			if it.ItemName() != "" && binder.IsCandidate(idx, it) {
				res = append(res, it.ItemName())
			}
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}

func writeStarterConfig(w io.Writer, log *logger.Logger, docs ...*typegraph.Document) error {
	f := config.File{
		ExternalTypes: []string{},
		Primitives:    binder.ConvertiblePrimitives(),
	}
	for _, name := range candidateNames(docs...) {
		f.Types = append(f.Types, config.Newtype{Name: name})
	}
	if len(f.Types) == 0 {
		log.Log(logger.WARN, "no structs or enums found")
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return err
	}
	var crates []string
	for _, doc := range docs {
		crates = append(crates, typegraph.NewIndex(doc).CrateName())
	}
	fmt.Fprintf(w, "# newtypegen config for %v\n\n", strings.Join(crates, ", "))
	_, err = w.Write(data)
	return err
}
