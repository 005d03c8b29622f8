package model

import (
	"fmt"
	"strings"
)

// Policy governs how occurrences of a flag affect the stored value.
type Policy int

const (
	// FlagTrue: default false, presence sets true.
	FlagTrue Policy = iota
	// FlagFalse: default true, presence sets false.
	FlagFalse
	// Store keeps a single value, the last occurrence wins.
	Store
	// Append collects every occurrence, restricted to the default's items.
	Append
	// AppendUnbounded collects every occurrence without restriction.
	AppendUnbounded
)

func (p Policy) String() string {
	switch p {
	case FlagTrue:
		return "flag-true"
	case FlagFalse:
		return "flag-false"
	case Store:
		return "store"
	case Append:
		return "append"
	case AppendUnbounded:
		return "append-unbounded"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// TakesValue reports whether an occurrence of the flag consumes a value token.
func (p Policy) TakesValue() bool {
	return p == Store || p == Append || p == AppendUnbounded
}

// PositionalSlot is filled by exactly one positional token.
type PositionalSlot struct {
	Name string
	Help string
}

// OptionSlot is a named optional slot.
type OptionSlot struct {
	// Name is the parameter name the value is reported under.
	Name string
	// Flags are the accepted flag spellings ("-v", "--verbose").
	Flags []string
	// Policy decides how the value is accumulated.
	Policy Policy
	// Default is the value used when the flag never occurs.
	Default Default
	// Choices restricts the accepted values for Append.
	Choices []string
	Help    string
}

// Shorts returns the single dash flags without their dash.
func (o OptionSlot) Shorts() []string {
	var out []string
	for _, f := range o.Flags {
		if !strings.HasPrefix(f, "--") {
			out = append(out, strings.TrimPrefix(f, "-"))
		}
	}
	return out
}

// Longs returns the double dash flags without their dashes.
func (o OptionSlot) Longs() []string {
	var out []string
	for _, f := range o.Flags {
		if strings.HasPrefix(f, "--") {
			out = append(out, strings.TrimPrefix(f, "--"))
		}
	}
	return out
}

// Metavar is the placeholder shown for value-taking flags.
func (o OptionSlot) Metavar() string {
	return strings.ToUpper(o.Name)
}

// FlagString renders the option spellings for help output, short flags first:
// "-v, --verbose" or "-S SUFFIX, --suffix=SUFFIX".
func (o OptionSlot) FlagString() string {
	var parts []string
	for _, s := range o.Shorts() {
		if o.Policy.TakesValue() {
			parts = append(parts, "-"+s+" "+o.Metavar())
		} else {
			parts = append(parts, "-"+s)
		}
	}
	for _, l := range o.Longs() {
		if o.Policy.TakesValue() {
			parts = append(parts, "--"+l+"="+o.Metavar())
		} else {
			parts = append(parts, "--"+l)
		}
	}
	return strings.Join(parts, ", ")
}

// VariadicSlot absorbs every positional token not consumed by a PositionalSlot.
type VariadicSlot struct {
	Name string
	Help string
}

// ParserModel is the complete, immutable description of a derived parser.
type ParserModel struct {
	Program     string
	Description string
	Positionals []PositionalSlot
	Options     []OptionSlot
	Variadic    *VariadicSlot
}

// Option returns the option slot for a parameter name.
func (m *ParserModel) Option(name string) (OptionSlot, bool) {
	for _, o := range m.Options {
		if o.Name == name {
			return o, true
		}
	}
	return OptionSlot{}, false
}

// UsageLine is "<prog> [options] pos1 pos2 [variadic]" without the "Usage: " prefix.
func (m *ParserModel) UsageLine() string {
	parts := []string{m.Program, "[options]"}
	for _, p := range m.Positionals {
		parts = append(parts, p.Name)
	}
	if m.Variadic != nil {
		parts = append(parts, fmt.Sprintf("[%s]", m.Variadic.Name))
	}
	return strings.Join(parts, " ")
}

// HasArgumentHelp reports whether any positional or variadic slot carries help text.
func (m *ParserModel) HasArgumentHelp() bool {
	for _, p := range m.Positionals {
		if p.Help != "" {
			return true
		}
	}
	return m.Variadic != nil && m.Variadic.Help != ""
}

// HelpFlagString is the spelling of the universally present help option.
const HelpFlagString = "-h, --help"

// HelpFlagText is the help text of the help option.
const HelpFlagText = "show this help message and exit"

// ParsedResult is the output of the underlying flag parse for one invocation.
type ParsedResult struct {
	// Options maps every optional slot name to its value, defaults applied.
	Options map[string]any
	// Positionals is the positional token stream, in order.
	Positionals []string
}
