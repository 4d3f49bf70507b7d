package playback

import "errors"

// Sentinel kinds for playback errors. These allow errors.Is/As from callers.
var (
	ErrAlreadyPlaying   = errors.New("playback already in progress")
	ErrNotPlaying       = errors.New("no playback in progress")
	ErrSynthesis        = errors.New("input synthesis failed")
	ErrInvalidLoopCount = errors.New("invalid loop count")
)
