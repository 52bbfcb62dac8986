// Package directive parses and collects //model: comment directives.
//
// A directive is a line comment of the form
//
//	//model:<name> [args...]
//
// attached to a type declaration or to a struct field.
package directive

import (
	"strings"

	"modelgraph/internal/decl"
)

// Prefix introduces every directive.
const Prefix = "//model:"

// Directive names understood by the Go front-end.
const (
	Root     = "root"     // type: handed to the registry as a root
	Subtypes = "subtypes" // type: explicit subtype list, may be empty
	SeeAlso  = "seealso"  // type or field: additional types to register
	Adapter  = "adapter"  // type or field: modeled as the named target
	Ignore   = "ignore"   // type or field: never modeled
	Object   = "object"   // type: enum modeled with object shape
	Value    = "value"    // field: the single value accessor
	Hint     = "hint"     // field: usage overriding the declared one
	Choice   = "choice"   // field: one alternate name=, type=, ns=
)

// Directive is one parsed comment line.
type Directive struct {
	Name string
	Args []string
	Pos  string
}

// Arg returns the first argument, if any.
func (d Directive) Arg() string {
	if len(d.Args) == 0 {
		return ""
	}
	return d.Args[0]
}

// KeyValues splits key=value arguments. Arguments without "=" are ignored.
func (d Directive) KeyValues() map[string]string {
	out := make(map[string]string, len(d.Args))
	for _, a := range d.Args {
		k, v, ok := strings.Cut(a, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}

// Parse reads one raw comment. ok is false for anything that is not a
// directive.
func Parse(comment, pos string) (Directive, bool) {
	rest, ok := strings.CutPrefix(comment, Prefix)
	if !ok {
		return Directive{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Directive{}, false
	}
	return Directive{Name: fields[0], Args: fields[1:], Pos: pos}, true
}

// Target is what a directive is attached to: a type, or one of its fields.
type Target struct {
	ID     decl.Identity
	Member string
}

func (t Target) String() string {
	if t.Member == "" {
		return string(t.ID)
	}
	return string(t.ID) + "." + t.Member
}
