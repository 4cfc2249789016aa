package simulation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid simulation configuration")
	ErrAlreadyRun    = errors.New("simulation already run")
	ErrInterrupted   = errors.New("simulation interrupted before an account reached zero")
)

// ConfigError reports one out-of-range or malformed setting.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// WorkerFault is an unexpected failure inside one worker's loop, including a
// recovered panic.
type WorkerFault struct {
	WorkerID int
	Err      error
	Stack    []byte
}

func (f *WorkerFault) Error() string {
	return fmt.Sprintf("worker %d fault: %v", f.WorkerID, f.Err)
}

func (f *WorkerFault) Unwrap() error {
	return f.Err
}
