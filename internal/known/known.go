// Package known holds the table of library types the model treats as
// primitives and never decomposes.
package known

import (
	"fmt"
	"strings"

	"modelgraph/internal/decl"
)

// RootObject is the universal root type. It is never modeled.
const RootObject decl.Identity = "any"

// DateKind refines how a date-like value is carried.
type DateKind uint8

const (
	DateNone DateKind = iota
	DateTimestamp
	DateDate
	DateDateTime
	DateTime
	DateDuration
)

func (d DateKind) String() string {
	switch d {
	case DateTimestamp:
		return "timestamp"
	case DateDate:
		return "date"
	case DateDateTime:
		return "datetime"
	case DateTime:
		return "time"
	case DateDuration:
		return "duration"
	default:
		return ""
	}
}

// ParseDateKind converts a config value to a DateKind.
func ParseDateKind(s string) (DateKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DateNone, nil
	case "timestamp":
		return DateTimestamp, nil
	case "date":
		return DateDate, nil
	case "datetime", "date-time":
		return DateDateTime, nil
	case "time":
		return DateTime, nil
	case "duration":
		return DateDuration, nil
	}
	return DateNone, fmt.Errorf("invalid date kind %q (expected: timestamp|date|datetime|time|duration)", s)
}

// Entry is what the table knows about one identity.
type Entry struct {
	Kind   decl.Primitive
	Date   DateKind
	Format string
}

// Usage returns the primitive usage standing in for the entry.
func (e Entry) Usage() decl.Usage { return decl.Prim(e.Kind) }

// Options customise a table at construction time.
type Options struct {
	// Extra adds (or overrides) entries.
	Extra map[decl.Identity]decl.Primitive
	// Formats attaches a format string to an identity.
	Formats map[decl.Identity]string
	// DateOverride replaces the subkind of every date entry when set.
	DateOverride DateKind
	// Evict removes identities redefined through mixins.
	Evict []decl.Identity
}

// Table is immutable once built.
type Table struct {
	entries map[decl.Identity]Entry
	formats map[decl.Identity]string
	evicted []decl.Identity
}

// New builds the default table with opts applied.
func New(opts Options) *Table {
	t := &Table{
		entries: make(map[decl.Identity]Entry, len(defaults)+len(opts.Extra)),
		formats: make(map[decl.Identity]string, len(opts.Formats)),
	}
	for id, e := range defaults {
		if e.Kind == decl.PrimDate && opts.DateOverride != DateNone {
			e.Date = opts.DateOverride
		}
		t.entries[id] = e
	}
	for id, kind := range opts.Extra {
		e := Entry{Kind: kind}
		if kind == decl.PrimDate {
			e.Date = DateTimestamp
			if opts.DateOverride != DateNone {
				e.Date = opts.DateOverride
			}
		}
		t.entries[id] = e
	}
	for id, f := range opts.Formats {
		t.formats[id] = f
	}
	for _, id := range opts.Evict {
		if _, ok := t.entries[id]; ok {
			delete(t.entries, id)
			t.evicted = append(t.evicted, id)
		}
	}
	return t
}

// Classify looks id up. It has no side effects.
func (t *Table) Classify(id decl.Identity) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[id]
	if !ok {
		return Entry{}, false
	}
	if f, ok := t.formats[id]; ok {
		e.Format = f
	}
	return e, true
}

// Has reports whether id is a known type.
func (t *Table) Has(id decl.Identity) bool {
	_, ok := t.Classify(id)
	return ok
}

// Format returns the configured format for id, known or not.
func (t *Table) Format(id decl.Identity) string {
	if t == nil {
		return ""
	}
	return t.formats[id]
}

// Evicted lists the identities removed at construction.
func (t *Table) Evicted() []decl.Identity {
	if t == nil {
		return nil
	}
	return append([]decl.Identity(nil), t.evicted...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
