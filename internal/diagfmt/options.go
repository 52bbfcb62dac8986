package diagfmt

import "fmt"

// Format selects how diagnostics are rendered.
type Format uint8

const (
	// FormatPretty is the colored one-line-per-diagnostic view.
	FormatPretty Format = iota
	FormatJSON
	FormatSarif
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatSarif:
		return "sarif"
	default:
		return "pretty"
	}
}

// ParseFormat accepts pretty, json and sarif.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSarif, nil
	}
	return FormatPretty, fmt.Errorf("invalid diagnostics format: %q (expected: pretty|json|sarif)", s)
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода, не Bag
	IncludeChain bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
