package opterator

import (
	"fmt"
	"io"
	"strings"

	"github.com/arran4/go-opterator/model"
)

const (
	helpIndent      = 2
	maxHelpPosition = 24
)

// Usage returns the usage line and the description block.
func (p *Parser) Usage() string {
	var sb strings.Builder
	p.writeUsage(&sb)
	return sb.String()
}

func (p *Parser) writeUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s\n", p.model.UsageLine())
	if p.model.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.model.Description)
	}
}

// Help renders the full help text. The output depends on the parser model only, so repeated
// calls are byte-identical. An "Arguments:" block is added when a positional or variadic
// parameter has help text.
func (p *Parser) Help() string {
	var sb strings.Builder
	p.writeUsage(&sb)

	if p.model.HasArgumentHelp() {
		var args []helpRow
		for _, a := range p.model.Positionals {
			args = append(args, helpRow{a.Name, a.Help})
		}
		if v := p.model.Variadic; v != nil {
			args = append(args, helpRow{v.Name, v.Help})
		}
		sb.WriteString("\nArguments:\n")
		writeRows(&sb, args)
	}

	sb.WriteString("\nOptions:\n")
	opts := []helpRow{{model.HelpFlagString, model.HelpFlagText}}
	for _, o := range p.model.Options {
		opts = append(opts, helpRow{o.FlagString(), o.Help})
	}
	writeRows(&sb, opts)
	return sb.String()
}

type helpRow struct{ label, help string }

// writeRows lays rows out in two columns. The help column starts after the widest label,
// but never past maxHelpPosition; longer labels put their help on the next line.
func writeRows(sb *strings.Builder, rows []helpRow) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}
	helpPos := min(width+helpIndent+2, maxHelpPosition)
	labelWidth := helpPos - helpIndent - 2
	indent := strings.Repeat(" ", helpIndent)
	for _, r := range rows {
		switch {
		case r.help == "":
			fmt.Fprintf(sb, "%s%s\n", indent, r.label)
		case len(r.label) > labelWidth:
			fmt.Fprintf(sb, "%s%s\n%s%s\n", indent, r.label, strings.Repeat(" ", helpPos), r.help)
		default:
			fmt.Fprintf(sb, "%s%-*s  %s\n", indent, labelWidth, r.label, r.help)
		}
	}
}

// ErrorText renders the usage block followed by "<prog>: error: <message>".
func (p *Parser) ErrorText(err error) string {
	var sb strings.Builder
	p.writeUsage(&sb)
	fmt.Fprintf(&sb, "\n%s: error: %s\n", p.model.Program, err)
	return sb.String()
}
