package main

import (
	"github.com/spf13/cobra"

	"modelgraph/internal/ui"
)

var slugsMaxWidth int

func init() {
	slugsCmd.Flags().IntVar(&slugsMaxWidth, "width", 0, "truncate identities to this many columns (0: no limit)")
}

var slugsCmd = &cobra.Command{
	Use:   "slugs [packages...]",
	Short: "Print the slug assigned to every registered type",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runDriver(cmd, args)
		if err == nil && res.Frozen != nil {
			slugs := res.Frozen.Slugs()
			table := &ui.Table{
				Header:   []string{"slug", "identity"},
				MaxWidth: slugsMaxWidth,
				Styled:   useColor(),
			}
			for _, id := range res.Frozen.Identities() {
				table.Rows = append(table.Rows, []string{slugs[id], string(id)})
			}
			if err := table.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
		}
		return finishRun(cmd, res, err)
	},
}
