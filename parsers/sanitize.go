package parsers

import (
	"strings"
	"unicode"

	"github.com/arran4/strings2"
)

// ToKebabCase converts a CamelCase string to kebab-case.
// It handles acronyms (e.g. JSONData -> json-data) and simple cases (CamelCase -> camel-case).
func ToKebabCase(s string) string {
	res, err := strings2.ToKebab(s, strings2.WithNumberSplitting(true))
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(res)
}

// FlagNames is one synthesized flag assignment.
type FlagNames struct {
	// Long is always set, e.g. "--verbose".
	Long string
	// Short is e.g. "-v", or empty when every character of the name was already claimed.
	Short string
}

// Flags returns the non-empty spellings, short first.
func (f FlagNames) Flags() []string {
	if f.Short == "" {
		return []string{f.Long}
	}
	return []string{f.Short, f.Long}
}

// FlagAllocator hands out non-colliding short flags for one parser build. It is a plain
// cursor: each Next call depends on the characters claimed by the calls before it, so one
// allocator must never be shared between builds.
type FlagAllocator struct {
	claimed map[rune]bool
	kebab   bool
}

// NewFlagAllocator creates an allocator with 'h' reserved for the help flag.
func NewFlagAllocator(opts ...AllocatorOption) *FlagAllocator {
	fa := &FlagAllocator{
		claimed: map[rune]bool{'h': true},
	}
	for _, opt := range opts {
		opt(fa)
	}
	return fa
}

// Claim marks a short flag character as taken. Used for explicitly annotated short flags.
func (fa *FlagAllocator) Claim(c rune) {
	fa.claimed[c] = true
}

// Claimed reports whether the character is already taken.
func (fa *FlagAllocator) Claimed(c rune) bool {
	return fa.claimed[c]
}

// Next assigns flags to the parameter name: always a long flag, plus a short flag on the
// first unclaimed letter or digit of the name.
func (fa *FlagAllocator) Next(name string) FlagNames {
	long := name
	if fa.kebab {
		long = ToKebabCase(name)
	}
	names := FlagNames{Long: "--" + long}
	for _, c := range name {
		if c > unicode.MaxASCII || !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
			continue
		}
		if fa.claimed[c] {
			continue
		}
		fa.Claim(c)
		names.Short = "-" + string(c)
		break
	}
	return names
}
