package model

import "errors"

// Sentinel kinds for model errors. These allow errors.Is/As from callers.
var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrMalformedMacro = errors.New("malformed macro")
)
