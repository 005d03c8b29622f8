package opterator

import (
	"errors"

	"github.com/arran4/go-opterator/model"
)

// ErrHelp is returned by Parse and Run when -h or --help was given. Run has already
// written the help text when it returns it.
var ErrHelp = errors.New("help requested")

// ErrConfig matches every *ConfigError.
var ErrConfig = model.ErrConfig

// ErrInvocation matches every *InvocationError.
var ErrInvocation = model.ErrInvocation

// ConfigError is a build-time inconsistency between a signature and its annotations.
type ConfigError = model.ConfigError

// InvocationError is a call-time failure caused by the argument vector.
type InvocationError = model.InvocationError

const (
	msgNotEnough = "Not enough arguments."
	msgTooMany   = "Too many arguments."
)

func requiredError(name string) error {
	return &InvocationError{Param: name, Message: name + " is required."}
}
