package main

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/refaktor/newtypegen/binder"
)

func writeStats(w io.Writer, out *binder.Output) {
	fmt.Fprintf(w, "==Binding stats==\n")
	fmt.Fprintf(w, "Generated %v descriptors, %v members commented out.\n", len(out.Descriptors), len(out.Failures))

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Type", "Methods", "Unary ops", "Binary ops", "Unsupported"})
	var total [4]int
	for _, d := range out.Descriptors {
		counts := [4]int{d.AutoMethods, d.UnaryOps, d.BinaryOps, len(d.Failures)}
		row := []string{d.Type}
		for i, n := range counts {
			total[i] += n
			row = append(row, strconv.Itoa(n))
		}
		tbl.Append(row)
	}
	row := []string{"==TOTAL=="}
	for _, n := range total {
		row = append(row, strconv.Itoa(n))
	}
	tbl.Append(row)
	tbl.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tbl.SetCenterSeparator("|")
	tbl.Render()

	if unbound := unboundTypes(out.Failures); len(unbound) > 0 {
		fmt.Fprintf(w, "Unconfigured types in unsupported members: %v\n", strings.Join(unbound, ", "))
	}
}

// unboundTypes returns the unconfigured type names referenced by
// failures, most frequent first, each followed by its count.
func unboundTypes(failures []binder.Failure) []string {
	counts := make(map[string]int)
	for _, f := range failures {
		for _, name := range f.Unbound {
			counts[name]++
		}
	}
	names := slices.Collect(maps.Keys(counts))
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	res := make([]string, len(names))
	for i, name := range names {
		res[i] = fmt.Sprintf("%v (%v)", name, counts[name])
	}
	return res
}
