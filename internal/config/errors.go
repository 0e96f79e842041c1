package config

import "fmt"

// ConfigurationError reports a missing or malformed option.
type ConfigurationError struct {
	// Option is the dotted option name, e.g. "parse.thread_sleep". Empty
	// when the whole file is at fault.
	Option string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func optionError(option, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Option: option, Err: fmt.Errorf(format, args...)}
}
