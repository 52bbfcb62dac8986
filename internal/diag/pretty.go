package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"modelgraph/internal/decl"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowChain bool
	// MinSeverity hides anything below it.
	MinSeverity Severity
}

var (
	sevColors = map[Severity]*color.Color{
		SevInfo:    color.New(color.FgCyan),
		SevWarning: color.New(color.FgYellow, color.Bold),
		SevError:   color.New(color.FgRed, color.Bold),
	}
	subjectColor = color.New(color.Bold)
	chainColor   = color.New(color.Faint)
)

// Pretty prints one diagnostic per line:
//
//	<SEV> <ID> <subject>: <message>
//	    via <chain>
//
// Call bag.Sort() first for a stable order.
func Pretty(w io.Writer, bag *Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	for _, d := range bag.Items() {
		if d.Severity < opts.MinSeverity {
			continue
		}
		if err := prettyOne(w, d, opts); err != nil {
			return err
		}
	}
	if n := bag.Dropped(); n > 0 {
		if _, err := fmt.Fprintf(w, "... %d more diagnostic(s) not shown (limit %d)\n", n, bag.Cap()); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d Diagnostic, opts PrettyOpts) error {
	sev := d.Severity.String()
	subject := string(d.Subject)
	chain := ""
	if opts.ShowChain && len(d.Chain) > 0 {
		chain = decl.FormatChain(d.Chain)
	}
	if opts.Color {
		if c, ok := sevColors[d.Severity]; ok {
			sev = c.Sprint(sev)
		}
		subject = subjectColor.Sprint(subject)
		if chain != "" {
			chain = chainColor.Sprint(chain)
		}
	}
	var err error
	if subject != "" {
		_, err = fmt.Fprintf(w, "%s %s %s: %s\n", sev, d.Code.ID(), subject, d.Message)
	} else {
		_, err = fmt.Fprintf(w, "%s %s %s\n", sev, d.Code.ID(), d.Message)
	}
	if err != nil || chain == "" {
		return err
	}
	_, err = fmt.Fprintf(w, "    via %s\n", chain)
	return err
}
