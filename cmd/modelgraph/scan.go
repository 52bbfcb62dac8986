package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"modelgraph/internal/diag"
	"modelgraph/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [packages...]",
	Short: "Traverse the model and report what was registered",
	Long: `scan loads the packages (default: [model].packages from modelgraph.toml,
else ./...), registers every type reachable from the roots and prints a
summary followed by the diagnostics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runDriver(cmd, args)
		if err == nil && res.Frozen != nil {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Title(fmt.Sprintf("modelgraph: %d types registered", res.Frozen.Len()), useColor()))

			counts := make(map[string]int)
			for _, def := range res.Frozen.Definitions() {
				counts[def.Kind.String()]++
			}
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			table := &ui.Table{Header: []string{"kind", "count"}, Styled: useColor()}
			for _, k := range kinds {
				table.Rows = append(table.Rows, []string{k, strconv.Itoa(counts[k])})
			}
			table.Rows = append(table.Rows,
				[]string{"warnings", strconv.Itoa(countSeverity(res.Bag, diag.SevWarning))},
				[]string{"unsupported", strconv.Itoa(res.Bag.Count(diag.ModelUnsupportedUsage))},
			)
			if err := table.Render(out); err != nil {
				return err
			}
		}
		return finishRun(cmd, res, err)
	},
}

func countSeverity(bag *diag.Bag, sev diag.Severity) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
