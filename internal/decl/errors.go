package decl

import (
	"errors"
	"fmt"
)

// ErrIncompleteModel is wrapped by front-ends when a declaration's shape
// cannot be fully resolved (typically a missing build dependency).
var ErrIncompleteModel = errors.New("incomplete program model")

// IncompleteModelError carries the reference chain from a root to the
// declaration the front-end failed to resolve.
type IncompleteModelError struct {
	Chain []Ref
	Err   error
}

func (e *IncompleteModelError) Error() string {
	return fmt.Sprintf("unable to resolve the full model (reference chain: %s): %v", FormatChain(e.Chain), e.Err)
}

func (e *IncompleteModelError) Unwrap() error { return e.Err }

// ConfigError reports an adapter target, mixin source or explicit subtype
// name that does not resolve to a real declaration.
type ConfigError struct {
	Subject Identity
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error for %s: %s", e.Subject, e.Reason)
}

// IsFatal reports whether err belongs to the fatal taxonomy.
func IsFatal(err error) bool {
	var cfg *ConfigError
	var inc *IncompleteModelError
	return errors.As(err, &cfg) || errors.As(err, &inc) || errors.Is(err, ErrIncompleteModel)
}
