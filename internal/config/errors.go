package config

import (
	"errors"
)

// Sentinel error kinds returned by Load and Validate.
var (
	// ErrInvalidConfig marks a setting outside its allowed values, such as an
	// unknown discipline, output format or a negative worker count.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a config file or environment that could not be read
	// or decoded.
	ErrLoadConfig = errors.New("load config failed")
)
