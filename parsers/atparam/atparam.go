// Package atparam parses the legacy annotation format, where every entry names an
// explicit action:
//
//	@param recursive store_true -r --recursive copy directories recursively
//	@param suffix store -S --suffix override the usual backup suffix
//
// The action may be left out when a flag follows the name directly; the policy is then
// inferred like the current format.
package atparam

import (
	"strings"

	"github.com/arran4/go-opterator/model"
	"github.com/arran4/go-opterator/parsers"
)

// Delimiter starts every entry.
const Delimiter = "@param"

func init() {
	parsers.Register("atparam", &DocParser{})
}

type DocParser struct{}

func (p *DocParser) Matches(doc string) bool {
	return parsers.HasDelimiter(doc, Delimiter)
}

func (p *DocParser) Parse(doc string) (*model.Annotations, error) {
	description, segments := parsers.SplitSegments(doc, Delimiter)
	ann := &model.Annotations{Description: description}
	for _, seg := range segments {
		fields := strings.Fields(seg)
		if len(fields) == 0 {
			return nil, &model.ConfigError{Param: "<empty>", Reason: "@param without a parameter name"}
		}
		entry := model.AnnotationEntry{Name: fields[0]}
		rest := fields[1:]
		if len(rest) > 0 && !parsers.IsFlagToken(rest[0]) {
			entry.Action = rest[0]
			rest = rest[1:]
		}
		entry.Flags, entry.Help = parsers.SplitFlagsAndHelp(rest)
		ann.Entries = append(ann.Entries, entry)
	}
	return ann, nil
}
