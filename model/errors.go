package model

import (
	"errors"
	"fmt"
)

// ErrConfig matches every *ConfigError via errors.Is.
var ErrConfig = errors.New("configuration error")

// ErrInvocation matches every *InvocationError via errors.Is.
var ErrInvocation = errors.New("invocation error")

// ConfigError is raised while building a parser when the signature and its annotations
// disagree. It is never returned from parsing an argument vector.
type ConfigError struct {
	// Param is the offending parameter name.
	Param  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Param, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func (e *ConfigError) Unwrap() error { return e.Err }

// InvocationError is a call-time failure caused by the supplied argument vector. Message is
// the single-line diagnostic shown to the user.
type InvocationError struct {
	// Param is set when the failure concerns one parameter.
	Param   string
	Message string
	Err     error
}

func (e *InvocationError) Error() string { return e.Message }

func (e *InvocationError) Is(target error) bool { return target == ErrInvocation }

func (e *InvocationError) Unwrap() error { return e.Err }
