// Package paramdoc parses the current annotation format, where the handling policy is
// inferred from the default value:
//
//	List information about a particular file or set of files
//
//	:param show_details: -l Whether to show detailed info about files
//	:param cols: -w --width specify screen width
package paramdoc

import (
	"regexp"
	"strings"

	"github.com/arran4/go-opterator/model"
	"github.com/arran4/go-opterator/parsers"
)

// Delimiter starts every entry.
const Delimiter = ":param"

func init() {
	parsers.Register("paramdoc", &DocParser{})
}

type DocParser struct{}

var reEntry = regexp.MustCompile(`(?s)^\s*(\w+)\s*:(.*)$`)

func (p *DocParser) Matches(doc string) bool {
	return parsers.HasDelimiter(doc, Delimiter)
}

func (p *DocParser) Parse(doc string) (*model.Annotations, error) {
	description, segments := parsers.SplitSegments(doc, Delimiter)
	ann := &model.Annotations{Description: description}
	for _, seg := range segments {
		m := reEntry.FindStringSubmatch(seg)
		if m == nil {
			return nil, &model.ConfigError{Param: firstWord(seg), Reason: "malformed :param entry, expected \":param name: help\""}
		}
		flags, help := parsers.SplitFlagsAndHelp(strings.Fields(m[2]))
		ann.Entries = append(ann.Entries, model.AnnotationEntry{
			Name:  m[1],
			Flags: flags,
			Help:  help,
		})
	}
	return ann, nil
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return "<empty>"
}
