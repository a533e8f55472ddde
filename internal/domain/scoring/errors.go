package scoring

import "errors"

// Sentinel error kinds. The engine never returns them from Score; they are
// surfaced through Evaluation.Err and diagnostic logs.
var (
	ErrMalformed      = errors.New("malformed performance")
	ErrOutOfRange     = errors.New("performance out of range")
	ErrUnknownKind    = errors.New("unknown event kind")
	ErrUnknownProfile = errors.New("unknown profile")
	ErrUnknownGender  = errors.New("unknown gender")
)
