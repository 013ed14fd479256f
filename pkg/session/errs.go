package session

import "errors"

var (
	// ErrNotFinite indicates an input value that is NaN or ±Inf.
	ErrNotFinite = errors.New("session: input is not a finite number")
)
