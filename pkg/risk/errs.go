package risk

import "errors"

var (
	// ErrUnknownPolicy indicates a threshold policy name that is not recognised.
	ErrUnknownPolicy = errors.New("risk: unknown threshold policy")

	// ErrUnknownSex indicates a sex category name that is not recognised.
	ErrUnknownSex = errors.New("risk: unknown sex category")

	// ErrUnknownSeverity indicates a severity band name that is not recognised.
	ErrUnknownSeverity = errors.New("risk: unknown severity")
)
