package opterator

import (
	"errors"
	"fmt"

	"github.com/arran4/go-opterator/model"
)

// Call is the argument list for one invocation of an entry point.
type Call struct {
	// Args holds one value per declared parameter, in declaration order. Required
	// parameters are strings, optional ones bool, string, []string or nil depending on
	// their default, and the variadic parameter is a []string.
	Args []any
	// Named maps every parameter name to the same value as in Args.
	Named map[string]any
	// Rest is the variadic parameter's value; empty but non-nil when declared.
	Rest []string
}

// Adapt reconstructs the ordered call from a parse result. Optional values are taken
// from the result as they are, Required parameters each consume the next positional token
// and the variadic parameter absorbs what is left. It fails with an *InvocationError when
// the positional tokens do not fit the signature.
func Adapt(res *model.ParsedResult, sig *model.Signature) (*Call, error) {
	if sig == nil {
		return nil, fmt.Errorf("%w: nil signature", ErrConfig)
	}
	if res == nil {
		return nil, errors.New("nil parse result")
	}
	tokens := res.Positionals
	params := sig.Parameters()
	call := &Call{
		Args:  make([]any, 0, len(params)),
		Named: make(map[string]any, len(params)),
	}
	for _, p := range params {
		var v any
		switch p.Kind {
		case model.Optional:
			val, ok := res.Options[p.Name]
			if !ok {
				val = p.Default.Value()
			}
			v = val
		case model.Required:
			if len(tokens) == 0 {
				return nil, &InvocationError{Param: p.Name, Message: msgNotEnough}
			}
			tok := tokens[0]
			tokens = tokens[1:]
			if tok == "" {
				return nil, requiredError(p.Name)
			}
			v = tok
		case model.Variadic:
			call.Rest = append([]string{}, tokens...)
			tokens = nil
			v = call.Rest
		}
		call.Args = append(call.Args, v)
		call.Named[p.Name] = v
	}
	if len(tokens) > 0 {
		return nil, &InvocationError{Message: msgTooMany}
	}
	return call, nil
}

// Lookup returns the value of a parameter.
func (c *Call) Lookup(name string) (any, bool) {
	v, ok := c.Named[name]
	return v, ok
}

// String returns a required or text valued parameter, "" when absent.
func (c *Call) String(name string) string {
	s, _ := c.Named[name].(string)
	return s
}

// Bool returns a boolean flag parameter.
func (c *Call) Bool(name string) bool {
	b, _ := c.Named[name].(bool)
	return b
}

// Strings returns a sequence valued parameter.
func (c *Call) Strings(name string) []string {
	s, _ := c.Named[name].([]string)
	return s
}

// Set reports whether a text parameter has a value, distinguishing an absent default from "".
func (c *Call) Set(name string) bool {
	v, ok := c.Named[name]
	return ok && v != nil
}
