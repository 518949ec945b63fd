package domain

import "fmt"

// EmptyInputError signals that one of the two input sequences was empty.
// The run aborts before any matching begins.
type EmptyInputError struct {
	Side Side
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s input sequence is empty", e.Side)
}

// ConfigurationError reports a threshold or option outside its valid
// range. Rejected before any matching begins, fatal to the run.
type ConfigurationError struct {
	Option string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", e.Option, e.Value, e.Reason)
}
