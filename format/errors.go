package format

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown sample format")
	ErrNoAudioData   = errors.New("file contains no audio data")
	ErrInvalidFile   = errors.New("file is not valid for its format")
)
