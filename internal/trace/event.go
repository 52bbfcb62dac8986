package trace

import "time"

// Kind tells spans from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command
	ScopePhase                   // config, load, validate, traverse, freeze
	ScopeRoot                    // one root declaration
	ScopeType                    // one type touched by the walk
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePhase:  "phase",
	ScopeRoot:   "root",
	ScopeType:   "type",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Action is what the registry did to the subject of a point event.
type Action uint8

const (
	ActionNone Action = iota
	// ActionRegister stores a fresh definition.
	ActionRegister
	// ActionKnown stops at a known type.
	ActionKnown
	// ActionAdapted drops a declaration whose adapter leaves nothing to model.
	ActionAdapted
	// ActionSourceMissing is logged once the info diagnostics for missing
	// positions are used up.
	ActionSourceMissing
	// ActionPoisoned marks the fatal error that stopped the registry.
	ActionPoisoned
)

var actionNames = [...]string{
	ActionNone:          "",
	ActionRegister:      "register",
	ActionKnown:         "known",
	ActionAdapted:       "adapted",
	ActionSourceMissing: "source missing",
	ActionPoisoned:      "poisoned",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// scope is where an action is reported; a poisoned registry ends the phase.
func (a Action) scope() Scope {
	if a == ActionPoisoned {
		return ScopePhase
	}
	return ScopeType
}

// Event is one trace record. Subject is the type identity the event is
// about, empty for driver and phase events.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	Action   Action
	SpanID   uint64
	ParentID uint64
	Name     string
	Subject  string
	Detail   string
	Extra    map[string]string
}
