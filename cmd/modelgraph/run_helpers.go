package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"modelgraph/internal/diag"
	"modelgraph/internal/diagfmt"
	"modelgraph/internal/driver"
	"modelgraph/internal/ui"
	"modelgraph/internal/version"
)

var runPhases = []string{
	driver.PhaseConfig,
	driver.PhaseLoad,
	driver.PhaseValidate,
	driver.PhaseTraverse,
	driver.PhaseFreeze,
}

// runDriver executes one run for the command, with the live view when
// --ui asks for it.
func runDriver(cmd *cobra.Command, patterns []string) (*driver.Result, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	opts := driver.Options{
		Dir:            wd,
		ConfigPath:     configPath,
		Patterns:       patterns,
		MaxDiagnostics: maxDiagnostics,
	}
	if !shouldUseTUI(mode) {
		return driver.Run(cmd.Context(), opts)
	}
	return runWithUI(cmd.Context(), cmd.CommandPath(), opts)
}

type runOutcome struct {
	result *driver.Result
	err    error
}

func runWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.PhaseEvent, 16)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Observer = func(ev driver.PhaseEvent) { events <- ev }
		res, err := driver.Run(ctx, opts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, runPhases, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the view may quit early; keep the driver from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// finishRun prints diagnostics and timings, and dumps the trace ring when
// the run failed.
func finishRun(cmd *cobra.Command, res *driver.Result, runErr error) error {
	if res != nil {
		if err := writeDiagnostics(cmd, res.Bag); err != nil {
			return err
		}
		showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
		if err != nil {
			return fmt.Errorf("failed to get timings flag: %w", err)
		}
		if showTimings && res.Timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
		}
	}
	if runErr != nil {
		dumpTraceRing(cmd)
		return runErr
	}
	return nil
}

// writeDiagnostics renders the bag in the --diag-format format. Every format
// goes to stderr, stdout carries the command's own output.
func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag) error {
	value, err := cmd.Root().PersistentFlags().GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(value)
	if err != nil {
		return err
	}
	switch format {
	case diagfmt.FormatJSON:
		return diagfmt.JSON(cmd.ErrOrStderr(), bag, diagfmt.JSONOpts{IncludeChain: true})
	case diagfmt.FormatSarif:
		return diagfmt.Sarif(cmd.ErrOrStderr(), bag, diagfmt.SarifRunMeta{
			ToolName:       "modelgraph",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return diag.Pretty(cmd.ErrOrStderr(), bag, diag.PrettyOpts{
			Color:     useColor(),
			ShowChain: true,
		})
	}
}
