package trace

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat accepts auto, text, ndjson and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent encodes ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

type wireEvent struct {
	Time     time.Time         `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	Action   string            `json:"action,omitempty"`
	SpanID   uint64            `json:"span_id,omitzero"`
	ParentID uint64            `json:"parent_id,omitzero"`
	Name     string            `json:"name"`
	Subject  string            `json:"subject,omitempty"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time,
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		Action:   ev.Action.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Subject:  ev.Subject,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	}, json.Deterministic(true))
	if err != nil {
		data = fmt.Appendf(nil, `{"seq":%d,"error":%q}`, ev.Seq, err.Error())
	}
	dst = append(dst, data...)
	return append(dst, '\n')
}

var kindMarks = [...]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
}

// appendText renders
//
//	#seq   scope  → name subject (detail) {k=v}
//
// indenting events that have a parent.
func appendText(dst []byte, ev *Event) []byte {
	seq := strconv.FormatUint(ev.Seq, 10)
	dst = append(dst, '#')
	dst = append(dst, seq...)
	dst = pad(dst, 7-len(seq))
	scope := ev.Scope.String()
	dst = append(dst, scope...)
	dst = pad(dst, 7-len(scope))
	if ev.ParentID > 0 {
		dst = append(dst, "  "...)
	}
	if int(ev.Kind) < len(kindMarks) {
		dst = append(dst, kindMarks[ev.Kind]...)
	}
	dst = append(dst, ev.Name...)
	if ev.Subject != "" {
		dst = append(dst, ' ')
		dst = append(dst, ev.Subject...)
	}
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		dst = append(dst, " {"...)
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}

func pad(dst []byte, n int) []byte {
	for ; n > 0; n-- {
		dst = append(dst, ' ')
	}
	return append(dst, ' ')
}
