// Package diagfmt renders a diagnostics bag for machines: a flat JSON
// document or a SARIF log.
package diagfmt

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"modelgraph/internal/diag"
)

// RefJSON is one hop of a provenance chain.
type RefJSON struct {
	Type   string `json:"type"`
	Member string `json:"member,omitempty"`
	Via    string `json:"via,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	Subject  string    `json:"subject,omitempty"`
	Message  string    `json:"message"`
	Chain    []RefJSON `json:"chain,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Subject:  string(d.Subject),
			Message:  d.Message,
		}
		if opts.IncludeChain {
			dj.Chain = chainJSON(d)
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	out.Dropped = bag.Dropped() + len(items) - n
	return out
}

func chainJSON(d diag.Diagnostic) []RefJSON {
	if len(d.Chain) == 0 {
		return nil
	}
	refs := make([]RefJSON, len(d.Chain))
	for i, r := range d.Chain {
		refs[i] = RefJSON{Type: string(r.ID), Member: r.Member, Via: r.Via}
	}
	return refs
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	out := BuildDiagnosticsOutput(bag, opts)
	if err := json.MarshalWrite(w, out, json.Deterministic(true), jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
