package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelgraph/internal/snapshot"
)

var (
	dumpFormat string
	dumpOutput string
)

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "", "snapshot format (json|msgpack; default from the output extension)")
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "-", "output file (- for stdout)")
}

var dumpCmd = &cobra.Command{
	Use:   "dump [packages...]",
	Short: "Write the frozen registry as a JSON or msgpack snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := snapshot.FormatForPath(dumpOutput)
		if dumpFormat != "" {
			f, err := snapshot.ParseFormat(dumpFormat)
			if err != nil {
				return err
			}
			format = f
		}

		res, err := runDriver(cmd, args)
		if err == nil && res.Frozen != nil {
			snap := snapshot.Build(res.Frozen, "modelgraph")
			if dumpOutput == "-" || dumpOutput == "" {
				err = snapshot.Encode(cmd.OutOrStdout(), snap, format)
			} else {
				err = snapshot.WriteFile(dumpOutput, snap, format)
				if err == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d types to %s (%s)\n", len(snap.Types), dumpOutput, format)
				}
			}
			if err != nil {
				return err
			}
		}
		return finishRun(cmd, res, err)
	},
}
