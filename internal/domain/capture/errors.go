package capture

import "errors"

// Sentinel kinds for capture errors. These allow errors.Is/As from callers.
var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
	ErrHookUnavailable  = errors.New("input hook unavailable")
)
