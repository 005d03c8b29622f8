package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultKind is the tag of a Default.
type DefaultKind int

const (
	// DefaultUnsupported marks a default whose shape cannot drive a policy.
	DefaultUnsupported DefaultKind = iota
	DefaultBool
	DefaultSequence
	DefaultText
	DefaultAbsent
)

func (k DefaultKind) String() string {
	switch k {
	case DefaultBool:
		return "bool"
	case DefaultSequence:
		return "sequence"
	case DefaultText:
		return "text"
	case DefaultAbsent:
		return "absent"
	}
	return "unsupported"
}

// Default is the tagged default value of an optional parameter. The zero value is unsupported.
type Default struct {
	kind  DefaultKind
	b     bool
	items []string
	text  string
	raw   any
}

func Bool(b bool) Default {
	return Default{kind: DefaultBool, b: b}
}

// Sequence is a list default. An empty sequence means "append, unrestricted"; a non-empty
// one doubles as the set of allowed choices.
func Sequence(items ...string) Default {
	return Default{kind: DefaultSequence, items: slices.Clone(items)}
}

func Text(s string) Default {
	return Default{kind: DefaultText, text: s}
}

// Absent is a text default that has no value at all.
func Absent() Default {
	return Default{kind: DefaultAbsent}
}

// DefaultOf converts a plain Go value into a Default. Shapes other than bool, []string,
// string, *string and nil produce an unsupported Default that keeps the original value for
// diagnostics.
func DefaultOf(v any) Default {
	switch v := v.(type) {
	case Default:
		return v
	case nil:
		return Absent()
	case bool:
		return Bool(v)
	case []string:
		return Sequence(v...)
	case string:
		return Text(v)
	case *string:
		if v == nil {
			return Absent()
		}
		return Text(*v)
	}
	return Default{kind: DefaultUnsupported, raw: v}
}

func (d Default) Kind() DefaultKind { return d.kind }

func (d Default) Bool() bool { return d.b }

// Items returns a copy of a sequence default.
func (d Default) Items() []string { return slices.Clone(d.items) }

func (d Default) Text() string { return d.text }

// Raw returns the original value of an unsupported default.
func (d Default) Raw() any { return d.raw }

// Value returns the default as the value an unset option resolves to: bool, []string,
// string, or nil for Absent.
func (d Default) Value() any {
	switch d.kind {
	case DefaultBool:
		return d.b
	case DefaultSequence:
		items := d.Items()
		if items == nil {
			items = []string{}
		}
		return items
	case DefaultText:
		return d.text
	case DefaultAbsent:
		return nil
	}
	return d.raw
}

func (d Default) String() string {
	switch d.kind {
	case DefaultBool:
		return strconv.FormatBool(d.b)
	case DefaultSequence:
		quoted := make([]string, len(d.items))
		for i, s := range d.items {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case DefaultText:
		return strconv.Quote(d.text)
	case DefaultAbsent:
		return "none"
	}
	return fmt.Sprintf("%v (%T)", d.raw, d.raw)
}
