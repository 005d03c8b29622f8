package opterator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/arran4/go-opterator/model"
	"github.com/arran4/go-opterator/parsers"
	_ "github.com/arran4/go-opterator/parsers/atparam"
	_ "github.com/arran4/go-opterator/parsers/paramdoc"
)

// DefaultDocParser is preferred when a doc block fits several formats and used when it fits none.
const DefaultDocParser = "paramdoc"

// Parser is a derived command line parser. It is immutable once built and can parse any
// number of argument vectors.
type Parser struct {
	model  *model.ParserModel
	sig    *model.Signature
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

type config struct {
	program   string
	kebab     bool
	docParser string
	stdout    io.Writer
	stderr    io.Writer
	logger    *zap.Logger
}

// Option configures Build.
type Option func(*config)

// WithProgramName sets the program token used in usage lines. Defaults to the base name of
// os.Args[0].
func WithProgramName(name string) Option {
	return func(c *config) { c.program = name }
}

// WithKebabFlags synthesizes long flags in kebab-case (showDetails -> --show-details).
func WithKebabFlags() Option {
	return func(c *config) { c.kebab = true }
}

// WithDocParser forces a registered doc parser instead of detecting the format.
func WithDocParser(name string) Option {
	return func(c *config) { c.docParser = name }
}

func WithStdout(w io.Writer) Option {
	return func(c *config) { c.stdout = w }
}

func WithStderr(w io.Writer) Option {
	return func(c *config) { c.stderr = w }
}

// WithLogger sets the logger for build warnings and parse traces. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	c := config{
		program: filepath.Base(os.Args[0]),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ParseDoc parses a doc block with the parser matching its format.
func ParseDoc(doc string) (*model.Annotations, error) {
	return parseDoc(doc, "")
}

func parseDoc(doc, name string) (*model.Annotations, error) {
	if name == "" {
		name = parsers.Detect(doc, DefaultDocParser)
	}
	p, err := parsers.Get(name)
	if err != nil {
		return nil, err
	}
	return p.Parse(doc)
}

// BuildFromDoc parses doc and then builds the parser.
func BuildFromDoc(sig *model.Signature, doc string, opts ...Option) (*Parser, error) {
	c := newConfig(opts)
	ann, err := parseDoc(doc, c.docParser)
	if err != nil {
		return nil, err
	}
	return build(sig, ann, c)
}

// Build derives the parser for sig. Every inconsistency between sig and ann is reported
// here as a *ConfigError; a built Parser never raises one.
func Build(sig *model.Signature, ann *model.Annotations, opts ...Option) (*Parser, error) {
	return build(sig, ann, newConfig(opts))
}

func build(sig *model.Signature, ann *model.Annotations, c config) (*Parser, error) {
	if sig == nil {
		return nil, fmt.Errorf("%w: nil signature", ErrConfig)
	}
	if ann == nil {
		ann = &model.Annotations{}
	}
	if err := validateAnnotations(sig, ann); err != nil {
		return nil, err
	}

	var explicit []rune
	for _, e := range ann.Entries {
		for _, f := range e.Flags {
			if !strings.HasPrefix(f, "--") {
				explicit = append(explicit, rune(f[1]))
			}
		}
	}
	alloc := parsers.NewFlagAllocator(parsers.WithKebabCase(c.kebab), parsers.WithReserved(explicit...))

	pm := &model.ParserModel{
		Program:     c.program,
		Description: ann.Description,
	}
	owners := map[string]string{"-h": "help", "--help": "help"}
	for _, p := range sig.Parameters() {
		entry, _ := ann.Lookup(p.Name)
		switch p.Kind {
		case model.Required:
			pm.Positionals = append(pm.Positionals, model.PositionalSlot{Name: p.Name, Help: entry.Help})
		case model.Variadic:
			pm.Variadic = &model.VariadicSlot{Name: p.Name, Help: entry.Help}
		case model.Optional:
			slot, err := buildOption(p, entry, alloc, c.logger)
			if err != nil {
				return nil, err
			}
			for _, f := range slot.Flags {
				if owner, ok := owners[f]; ok {
					return nil, &ConfigError{Param: p.Name, Reason: fmt.Sprintf("flag %s is already used by %s", f, owner)}
				}
				owners[f] = p.Name
			}
			pm.Options = append(pm.Options, slot)
		}
	}
	warnMissingHelp(pm, c.logger)

	return &Parser{
		model:  pm,
		sig:    sig,
		stdout: c.stdout,
		stderr: c.stderr,
		logger: c.logger,
	}, nil
}

func validateAnnotations(sig *model.Signature, ann *model.Annotations) error {
	seen := make(map[string]bool, len(ann.Entries))
	for _, e := range ann.Entries {
		p, ok := sig.Lookup(e.Name)
		if !ok {
			return &ConfigError{Param: e.Name, Reason: "annotation does not match any parameter of the signature"}
		}
		if seen[e.Name] {
			return &ConfigError{Param: e.Name, Reason: "parameter is annotated more than once"}
		}
		seen[e.Name] = true
		if p.Kind != model.Optional && (len(e.Flags) > 0 || e.Action != "") {
			return &ConfigError{Param: e.Name, Reason: fmt.Sprintf("%s parameters accept help text only, not flags or an action", p.Kind)}
		}
		for _, f := range e.Flags {
			if err := validateFlag(f); err != nil {
				return &ConfigError{Param: e.Name, Reason: err.Error()}
			}
		}
	}
	return nil
}

func validateFlag(f string) error {
	if !parsers.IsFlagToken(f) {
		return fmt.Errorf("malformed flag %q", f)
	}
	if !strings.HasPrefix(f, "--") && len(f) != 2 {
		return fmt.Errorf("flag %q: single dash flags must be one character, use --%s", f, strings.TrimPrefix(f, "-"))
	}
	return nil
}

func buildOption(p model.Parameter, entry model.AnnotationEntry, alloc *parsers.FlagAllocator, logger *zap.Logger) (model.OptionSlot, error) {
	policy, err := InferPolicy(p.Default)
	if err != nil {
		return model.OptionSlot{}, &ConfigError{Param: p.Name, Reason: "cannot infer how to handle the flag", Err: err}
	}
	if entry.Action != "" {
		explicit, err := PolicyForAction(entry.Action, p.Default)
		if err != nil {
			return model.OptionSlot{}, &ConfigError{Param: p.Name, Reason: "invalid action", Err: err}
		}
		if explicit != policy {
			logger.Warn("explicit action overrides the policy inferred from the default",
				zap.String("param", p.Name),
				zap.Stringer("inferred", policy),
				zap.Stringer("action", explicit))
		}
		policy = explicit
	}

	slot := model.OptionSlot{
		Name:    p.Name,
		Policy:  policy,
		Default: p.Default,
		Help:    entry.Help,
	}
	if policy == model.Append {
		slot.Choices = p.Default.Items()
	}
	if len(entry.Flags) > 0 {
		slot.Flags = append([]string(nil), entry.Flags...)
		return slot, nil
	}
	names := alloc.Next(p.Name)
	if names.Short == "" {
		logger.Warn("no free short flag character, using the long flag only",
			zap.String("param", p.Name),
			zap.String("flag", names.Long))
	}
	slot.Flags = names.Flags()
	return slot, nil
}

func warnMissingHelp(pm *model.ParserModel, logger *zap.Logger) {
	var missing []string
	documented := false
	for _, o := range pm.Options {
		if o.Help == "" {
			missing = append(missing, o.Name)
		} else {
			documented = true
		}
	}
	if documented && len(missing) > 0 {
		logger.Warn("some options are missing help text while others have it",
			zap.String("program", pm.Program),
			zap.Strings("params", missing))
	}
}

// Model returns the derived parser model. It must not be modified.
func (p *Parser) Model() *model.ParserModel {
	return p.model
}

// Signature returns the signature the parser was built from.
func (p *Parser) Signature() *model.Signature {
	return p.sig
}
