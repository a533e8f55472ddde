package sheet

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLoadSheet    = errors.New("load sheet failed")
	ErrInvalidSheet = errors.New("invalid sheet")
)
