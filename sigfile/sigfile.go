// Package sigfile loads entry point declarations from YAML or TOML files, so a parser can
// be derived without any Go source:
//
//	program: copy
//	doc: |
//	  Copy files.
//
//	  :param recursive: -r --recursive copy directories recursively
//	parameters:
//	  - name: src
//	  - name: recursive
//	    kind: optional
//	    default: false
//	  - name: others
//	    kind: variadic
package sigfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/arran4/go-opterator"
	"github.com/arran4/go-opterator/model"
)

// Format is a supported file encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// File is one declaration file.
type File struct {
	Program    string      `yaml:"program" toml:"program"`
	Doc        string      `yaml:"doc,omitempty" toml:"doc,omitempty"`
	KebabFlags bool        `yaml:"kebab_flags,omitempty" toml:"kebab_flags,omitempty"`
	DocFormat  string      `yaml:"doc_format,omitempty" toml:"doc_format,omitempty"`
	Parameters []Parameter `yaml:"parameters" toml:"parameters"`
}

// Parameter declares one parameter. Kind is "required" (the default), "optional" or
// "variadic". An optional parameter without a default has no value until its flag is given.
type Parameter struct {
	Name    string `yaml:"name" toml:"name"`
	Kind    string `yaml:"kind,omitempty" toml:"kind,omitempty"`
	Default any    `yaml:"default,omitempty" toml:"default,omitempty"`
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unsupported signature file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
}

// Load reads the file at path.
func Load(path string) (*File, error) {
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFS reads name from fsys.
func LoadFS(fsys fs.FS, name string) (*File, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return f, nil
}

// Decode reads one declaration. Unknown keys are rejected in both formats.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty signature file")
			}
			return nil, err
		}
		var extra any
		if err := dec.Decode(&extra); err == nil {
			return nil, errors.New("multiple YAML documents are not supported")
		} else if !errors.Is(err, io.EOF) {
			return nil, err
		}
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &f, nil
}

// Signature converts the parameter list. Defaults decoded as lists must hold only strings.
func (f *File) Signature() (*model.Signature, error) {
	b := model.NewSignature()
	for _, p := range f.Parameters {
		switch strings.ToLower(p.Kind) {
		case "", "required":
			if p.Default != nil {
				return nil, &model.ConfigError{Param: p.Name, Reason: "required parameters take no default"}
			}
			b.Required(p.Name)
		case "optional":
			d, err := defaultOf(p)
			if err != nil {
				return nil, err
			}
			b.OptionalDefault(p.Name, d)
		case "variadic":
			if p.Default != nil {
				return nil, &model.ConfigError{Param: p.Name, Reason: "variadic parameters take no default"}
			}
			b.Variadic(p.Name)
		default:
			return nil, &model.ConfigError{Param: p.Name, Reason: fmt.Sprintf("unknown kind %q", p.Kind)}
		}
	}
	return b.Build()
}

func defaultOf(p Parameter) (model.Default, error) {
	switch v := p.Default.(type) {
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return model.Default{}, &model.ConfigError{Param: p.Name, Reason: fmt.Sprintf("list default item %v is not a string", item)}
			}
			items[i] = s
		}
		return model.Sequence(items...), nil
	}
	d := model.DefaultOf(p.Default)
	if d.Kind() == model.DefaultUnsupported {
		return d, &model.ConfigError{Param: p.Name, Reason: fmt.Sprintf("unsupported default %v (%T)", p.Default, p.Default)}
	}
	return d, nil
}

// Options returns the build options the file asks for.
func (f *File) Options() []opterator.Option {
	var opts []opterator.Option
	if f.Program != "" {
		opts = append(opts, opterator.WithProgramName(f.Program))
	}
	if f.KebabFlags {
		opts = append(opts, opterator.WithKebabFlags())
	}
	if f.DocFormat != "" {
		opts = append(opts, opterator.WithDocParser(f.DocFormat))
	}
	return opts
}

// Parser builds the parser the file declares. Options given here override the file.
func (f *File) Parser(opts ...opterator.Option) (*opterator.Parser, error) {
	sig, err := f.Signature()
	if err != nil {
		return nil, err
	}
	return opterator.BuildFromDoc(sig, f.Doc, append(f.Options(), opts...)...)
}
