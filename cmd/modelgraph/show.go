package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"modelgraph/internal/decl"
	"modelgraph/internal/snapshot"
	"modelgraph/internal/ui"
)

var showType string

func init() {
	showCmd.Flags().StringVar(&showType, "type", "", "print the members of one type")
}

var showCmd = &cobra.Command{
	Use:   "show <snapshot>",
	Short: "Summarize a snapshot written by dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.ReadFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if showType != "" {
			t, ok := snap.Lookup(decl.NewIdentity(showType))
			if !ok {
				return fmt.Errorf("%s: no type %q", args[0], showType)
			}
			fmt.Fprintln(out, ui.Title(fmt.Sprintf("%s (%s, slug %s)", t.ID, t.Kind, t.Slug), useColor()))
			if len(t.Provenance) > 0 {
				fmt.Fprintf(out, "reached via %s\n", strings.Join(t.Provenance, " -> "))
			}
			table := &ui.Table{Header: []string{"member", "type", "adapter"}, Styled: useColor()}
			for _, m := range t.Members {
				table.Rows = append(table.Rows, []string{m.Name, m.Type, m.Adapter})
			}
			if t.Value != nil {
				table.Rows = append(table.Rows, []string{t.Value.Name + " (value)", t.Value.Type, t.Value.Adapter})
			}
			return table.Render(out)
		}

		fmt.Fprintln(out, ui.Title(fmt.Sprintf("%s: %d types (schema %d)", args[0], len(snap.Types), snap.Schema), useColor()))
		counts := snap.Counts()
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		table := &ui.Table{Header: []string{"kind", "count"}, Styled: useColor()}
		for _, k := range kinds {
			table.Rows = append(table.Rows, []string{k, strconv.Itoa(counts[k])})
		}
		return table.Render(out)
	},
}
