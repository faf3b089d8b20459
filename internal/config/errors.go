package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks a configuration that loaded but breaks a rule.
	ErrInvalidConfig = errors.New("invalid surfcast configuration")
	// ErrLoadConfig marks a layer that could not be read or decoded.
	ErrLoadConfig = errors.New("cannot load surfcast configuration")
)

// invalid reports the key that failed validation.
func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

// loadFailed reports the layer (dotenv, yaml, env, decode) that failed.
func loadFailed(layer string, err error) error {
	return fmt.Errorf("%w: %s layer: %v", ErrLoadConfig, layer, err)
}
