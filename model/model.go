package model

import (
	"fmt"
	"slices"
	"strings"
)

// Kind classifies a parameter of an entry point.
type Kind int

const (
	// Required parameters are filled by exactly one positional token.
	Required Kind = iota
	// Optional parameters carry a default value and are filled via flags.
	Optional
	// Variadic is the trailing catch-all parameter.
	Variadic
)

func (k Kind) String() string {
	switch k {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Variadic:
		return "variadic"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parameter is a single declared parameter of an entry point.
type Parameter struct {
	// Name is the parameter name as declared.
	Name string
	// Kind is Required, Optional or Variadic.
	Kind Kind
	// Default is only meaningful for Optional parameters.
	Default Default
}

// Signature is the normalized description of an entry point. Declaration order is preserved.
type Signature struct {
	params []Parameter
}

// Parameters returns a copy of all parameters in declaration order.
func (s *Signature) Parameters() []Parameter {
	return slices.Clone(s.params)
}

// RequiredParameters returns the Required parameters in declaration order.
func (s *Signature) RequiredParameters() []Parameter {
	return s.byKind(Required)
}

// OptionalParameters returns the Optional parameters in declaration order.
func (s *Signature) OptionalParameters() []Parameter {
	return s.byKind(Optional)
}

// VariadicParameter returns the variadic parameter if one was declared.
func (s *Signature) VariadicParameter() (Parameter, bool) {
	if n := len(s.params); n > 0 && s.params[n-1].Kind == Variadic {
		return s.params[n-1], true
	}
	return Parameter{}, false
}

func (s *Signature) Lookup(name string) (Parameter, bool) {
	for _, p := range s.params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

func (s *Signature) byKind(k Kind) []Parameter {
	var out []Parameter
	for _, p := range s.params {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// String renders the signature roughly as it would be declared, e.g. "(src, dst, verbose=false, *rest)".
func (s *Signature) String() string {
	parts := make([]string, 0, len(s.params))
	for _, p := range s.params {
		switch p.Kind {
		case Optional:
			parts = append(parts, p.Name+"="+p.Default.String())
		case Variadic:
			parts = append(parts, "*"+p.Name)
		default:
			parts = append(parts, p.Name)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SignatureBuilder accumulates parameters in declaration order. Structural problems are
// reported by Build, never by the individual calls.
type SignatureBuilder struct {
	params []Parameter
}

func NewSignature() *SignatureBuilder {
	return &SignatureBuilder{}
}

// Required appends required positional parameters.
func (b *SignatureBuilder) Required(names ...string) *SignatureBuilder {
	for _, n := range names {
		b.params = append(b.params, Parameter{Name: n, Kind: Required})
	}
	return b
}

// Optional appends an optional parameter whose default is converted with DefaultOf.
func (b *SignatureBuilder) Optional(name string, def any) *SignatureBuilder {
	return b.OptionalDefault(name, DefaultOf(def))
}

func (b *SignatureBuilder) OptionalDefault(name string, def Default) *SignatureBuilder {
	b.params = append(b.params, Parameter{Name: name, Kind: Optional, Default: def})
	return b
}

// Variadic appends the trailing catch-all parameter.
func (b *SignatureBuilder) Variadic(name string) *SignatureBuilder {
	b.params = append(b.params, Parameter{Name: name, Kind: Variadic})
	return b
}

// Add appends an already constructed parameter.
func (b *SignatureBuilder) Add(p Parameter) *SignatureBuilder {
	b.params = append(b.params, p)
	return b
}

// Build validates the structure of the signature. Default shapes are checked later, when
// a parser is built from the signature.
func (b *SignatureBuilder) Build() (*Signature, error) {
	seen := make(map[string]bool, len(b.params))
	for i, p := range b.params {
		if p.Name == "" {
			return nil, &ConfigError{Param: fmt.Sprintf("#%d", i), Reason: "parameter name is empty"}
		}
		if seen[p.Name] {
			return nil, &ConfigError{Param: p.Name, Reason: "duplicate parameter name"}
		}
		seen[p.Name] = true
		if p.Kind == Variadic && i != len(b.params)-1 {
			return nil, &ConfigError{Param: p.Name, Reason: "variadic parameter must be the last parameter"}
		}
	}
	return &Signature{params: slices.Clone(b.params)}, nil
}

// MustBuild is like Build but panics on error. Intended for package level declarations.
func (b *SignatureBuilder) MustBuild() *Signature {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
