package repository

import "errors"

// Sentinel kinds for macro store errors.
var (
	ErrRead  = errors.New("macro read failed")
	ErrWrite = errors.New("macro write failed")
)
