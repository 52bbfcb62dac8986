package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase of the run has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported to observers and recorded by the timer.
const (
	PhaseConfig   = "config"
	PhaseLoad     = "load"
	PhaseValidate = "validate"
	PhaseTraverse = "traverse"
	PhaseFreeze   = "freeze"
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Run and Analyze.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) notify(name string, status PhaseStatus, elapsed time.Duration) {
	if o != nil {
		o(PhaseEvent{Name: name, Status: status, Elapsed: elapsed})
	}
}
