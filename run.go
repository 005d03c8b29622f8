package opterator

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/arran4/go-opterator/model"
)

// Exit codes used by ExitCode.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitInvocation = 2
)

// Run parses args and writes the terminal output itself: the help text to stdout for
// ErrHelp, the usage block plus diagnostic to stderr for invocation errors. The returned
// error is the one from Parse.
func (p *Parser) Run(args []string) (*Call, error) {
	call, err := p.Parse(args)
	switch {
	case err == nil:
		return call, nil
	case errors.Is(err, ErrHelp):
		if _, werr := fmt.Fprint(p.stdout, p.Help()); werr != nil {
			p.logger.Error("writing help", zap.Error(werr))
		}
	default:
		if _, werr := fmt.Fprint(p.stderr, p.ErrorText(err)); werr != nil {
			p.logger.Error("writing diagnostic", zap.Error(werr))
		}
	}
	return nil, err
}

// ExitCode maps the outcome of Run to a process exit status: help counts as success,
// invocation errors as 2 and anything else as 1.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrHelp):
		return ExitOK
	case errors.Is(err, ErrInvocation):
		return ExitInvocation
	}
	return ExitFailure
}

// Opterate builds a parser for sig from doc and returns an entry function running fn with
// the parsed call. The entry function prints help and diagnostics like Run does; errors
// returned by fn are passed through untouched.
func Opterate(sig *model.Signature, doc string, fn func(*Call) error, opts ...Option) (func(args []string) error, error) {
	p, err := BuildFromDoc(sig, doc, opts...)
	if err != nil {
		return nil, err
	}
	return func(args []string) error {
		call, err := p.Run(args)
		if err != nil {
			return err
		}
		return fn(call)
	}, nil
}

// Main runs fn against os.Args[1:] and exits the process with the matching status.
func (p *Parser) Main(fn func(*Call) error) {
	call, err := p.Run(os.Args[1:])
	if err == nil {
		if err = fn(call); err != nil {
			fmt.Fprintf(p.stderr, "%s: error: %s\n", p.model.Program, err)
		}
	}
	os.Exit(ExitCode(err))
}
