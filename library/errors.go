package library

import "errors"

var (
	ErrPresetNotFound = errors.New("preset directory not found")
	ErrEmptyPreset    = errors.New("preset contains no loadable samples")
)
