package parsers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/arran4/go-opterator/model"
)

// Parser turns a free-text doc block into structured annotations.
type Parser interface {
	Parse(doc string) (*model.Annotations, error)
}

// Marker is implemented by parsers that can recognise their own format.
type Marker interface {
	Matches(doc string) bool
}

var parsers = make(map[string]Parser)

func Register(name string, p Parser) {
	parsers[name] = p
}

func Get(name string) (Parser, error) {
	if p, ok := parsers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("parser %s not found", name)
}

// Names lists the registered parsers, sorted.
func Names() []string {
	names := make([]string, 0, len(parsers))
	for n := range parsers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Detect picks the parser for doc: fallback when its Matches accepts the doc, otherwise the
// first other registered parser, by name order, that accepts it, otherwise fallback.
func Detect(doc, fallback string) string {
	if m, ok := parsers[fallback].(Marker); ok && m.Matches(doc) {
		return fallback
	}
	for _, n := range Names() {
		if m, ok := parsers[n].(Marker); ok && m.Matches(doc) {
			return n
		}
	}
	return fallback
}

var reFlagToken = regexp.MustCompile(`^--?[A-Za-z0-9][\w-]*$`)

// IsFlagToken reports whether the token looks like "-x" or "--long".
func IsFlagToken(tok string) bool {
	return reFlagToken.MatchString(tok)
}

func delimiterPattern(delim string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(delim) + `(?:\s|$)`)
}

// HasDelimiter reports whether delim starts any line of doc, ignoring indentation.
func HasDelimiter(doc, delim string) bool {
	return delimiterPattern(delim).MatchString(doc)
}

// SplitSegments splits doc on every delim that starts a line; a delim inside a line is plain
// text. The text before the first delimiter is returned trimmed as the description;
// segments keep their raw text.
func SplitSegments(doc, delim string) (description string, segments []string) {
	re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(delim))
	locs := re.FindAllStringIndex(doc, -1)
	if len(locs) == 0 {
		return strings.TrimSpace(doc), nil
	}
	description = strings.TrimSpace(doc[:locs[0][0]])
	for i, loc := range locs {
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segments = append(segments, doc[loc[1]:end])
	}
	return description, segments
}

// SplitFlagsAndHelp consumes leading flag tokens and folds the remaining words into the
// help text.
func SplitFlagsAndHelp(fields []string) (flags []string, help string) {
	i := 0
	for i < len(fields) && IsFlagToken(fields[i]) {
		flags = append(flags, fields[i])
		i++
	}
	return flags, strings.Join(fields[i:], " ")
}
