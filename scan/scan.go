// Package scan discovers entry points in Go source. A top level function whose doc comment
// carries the directive
//
//	// Copy is an entry point `copy` that copies files
//
// is turned into a signature and annotation doc that the opterator package can build a
// parser from. Parameter types decide the parameter kinds:
//
//	string           required positional, or an optional text with "(default: v)"
//	bool             optional flag, default false unless "(default: true)"
//	[]string         optional list, choices from "(default: a,b)"
//	*string          optional text without a default
//	...string        variadic remainder
package scan

import (
	"bufio"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/modfile"

	"github.com/arran4/go-opterator"
	"github.com/arran4/go-opterator/model"
)

// DirectiveEntryPoint marks a function as an entry point.
const DirectiveEntryPoint = "is an entry point"

// EntryPoint is one discovered function.
type EntryPoint struct {
	Program        string
	FunctionName   string
	ImportPath     string
	PackageName    string
	DefinitionFile string
	// Doc is the annotation doc with the directive line and default tags removed.
	Doc          string
	Signature    *model.Signature
	ReturnsError bool
}

// Parser builds the command line parser for the entry point.
func (ep *EntryPoint) Parser(opts ...opterator.Option) (*opterator.Parser, error) {
	opts = append([]opterator.Option{opterator.WithProgramName(ep.Program)}, opts...)
	return opterator.BuildFromDoc(ep.Signature, ep.Doc, opts...)
}

// Scanner walks a module tree.
type Scanner struct {
	logger *zap.Logger
}

type Option func(*Scanner)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

func New(opts ...Option) *Scanner {
	s := &Scanner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseGoFiles scans fsys with the default scanner.
func ParseGoFiles(fsys fs.FS, root string) ([]*EntryPoint, error) {
	return New().Scan(fsys, root)
}

// Scan walks root, which must hold a go.mod, and returns the entry points sorted by
// program name. Every entry point is checked by building its parser, so a returned entry
// point never fails with a configuration error later.
func (s *Scanner) Scan(fsys fs.FS, root string) ([]*EntryPoint, error) {
	fset := token.NewFileSet()

	goModBytes, err := fs.ReadFile(fsys, path.Join(root, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("go.mod not found in the root of the repository: %w", err)
	}
	modPath := modfile.ModulePath(goModBytes)

	var found []*EntryPoint
	err = fs.WalkDir(fsys, root, func(pathStr string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if pathStr == root {
				return nil
			}
			if name := d.Name(); name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return fs.SkipDir
			}
			// Nested modules are scanned on their own.
			if _, err := fs.Stat(fsys, path.Join(pathStr, "go.mod")); err == nil {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(pathStr, ".go") || strings.HasSuffix(pathStr, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, pathStr)
		if err != nil {
			rel = pathStr
		}
		dir := path.Dir(filepath.ToSlash(rel))
		if dir == "." {
			dir = ""
		}

		f, err := fsys.Open(pathStr)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()

		eps, err := ParseGoFile(fset, pathStr, path.Join(modPath, dir), f)
		if err != nil {
			return err
		}
		found = append(found, eps...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Program < found[j].Program
	})
	seen := map[string]*EntryPoint{}
	for _, ep := range found {
		if prev, ok := seen[ep.Program]; ok {
			return nil, fmt.Errorf("entry point %q declared by both %s and %s", ep.Program, prev.FunctionName, ep.FunctionName)
		}
		seen[ep.Program] = ep
		if _, err := ep.Parser(opterator.WithLogger(s.logger.With(zap.String("program", ep.Program)))); err != nil {
			return nil, fmt.Errorf("%s (%s): %w", ep.FunctionName, ep.DefinitionFile, err)
		}
	}
	return found, nil
}

// ParseGoFile returns the entry points declared in one source file.
func ParseGoFile(fset *token.FileSet, filename, importPath string, file io.Reader) ([]*EntryPoint, error) {
	src, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution|parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var eps []*EntryPoint
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		prog, doc, defaults, ok := ParseEntryPointComment(fn.Doc.Text())
		if !ok {
			continue
		}
		sig, err := signatureOf(fn, defaults)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name.Name, err)
		}

		returnsError := false
		if fn.Type.Results != nil {
			if fn.Type.Results.NumFields() > 1 {
				return nil, fmt.Errorf("function %s has multiple return values, which is not supported", fn.Name.Name)
			}
			for _, r := range fn.Type.Results.List {
				if ident, ok := r.Type.(*ast.Ident); ok && ident.Name == "error" {
					returnsError = true
				}
			}
		}

		eps = append(eps, &EntryPoint{
			Program:        prog,
			FunctionName:   fn.Name.Name,
			ImportPath:     importPath,
			PackageName:    f.Name.Name,
			DefinitionFile: filename,
			Doc:            doc,
			Signature:      sig,
			ReturnsError:   returnsError,
		})
	}
	return eps, nil
}

func signatureOf(fn *ast.FuncDecl, defaults map[string]string) (*model.Signature, error) {
	b := model.NewSignature()
	if fn.Type.Params == nil {
		return b.Build()
	}
	declared := map[string]bool{}
	for _, field := range fn.Type.Params.List {
		for _, name := range field.Names {
			declared[name.Name] = true
			def, hasDefault := defaults[name.Name]
			p, err := parameterOf(name.Name, field.Type, def, hasDefault)
			if err != nil {
				return nil, err
			}
			b.Add(p)
		}
	}
	for name := range defaults {
		if !declared[name] {
			return nil, &model.ConfigError{Param: name, Reason: "default given for an unknown parameter"}
		}
	}
	return b.Build()
}

func parameterOf(name string, typ ast.Expr, def string, hasDefault bool) (model.Parameter, error) {
	unsupported := func() (model.Parameter, error) {
		return model.Parameter{}, &model.ConfigError{Param: name, Reason: fmt.Sprintf("unsupported parameter type %s", typeString(typ))}
	}
	noDefault := func(kind string) (model.Parameter, error) {
		return model.Parameter{}, &model.ConfigError{Param: name, Reason: kind + " parameters take no default"}
	}

	switch t := typ.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			if !hasDefault {
				return model.Parameter{Name: name, Kind: model.Required}, nil
			}
			return model.Parameter{Name: name, Kind: model.Optional, Default: model.Text(def)}, nil
		case "bool":
			v := false
			if hasDefault {
				b, err := strconv.ParseBool(def)
				if err != nil {
					return model.Parameter{}, &model.ConfigError{Param: name, Reason: "invalid bool default", Err: err}
				}
				v = b
			}
			return model.Parameter{Name: name, Kind: model.Optional, Default: model.Bool(v)}, nil
		}
	case *ast.ArrayType:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "string" && t.Len == nil {
			return model.Parameter{Name: name, Kind: model.Optional, Default: model.Sequence(splitList(def)...)}, nil
		}
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok && ident.Name == "string" {
			if hasDefault {
				return noDefault("pointer")
			}
			return model.Parameter{Name: name, Kind: model.Optional, Default: model.Absent()}, nil
		}
	case *ast.Ellipsis:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "string" {
			if hasDefault {
				return noDefault("variadic")
			}
			return model.Parameter{Name: name, Kind: model.Variadic}, nil
		}
	}
	return unsupported()
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func typeString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + typeString(t.X)
	case *ast.ArrayType:
		return "[]" + typeString(t.Elt)
	case *ast.Ellipsis:
		return "..." + typeString(t.Elt)
	case *ast.MapType:
		return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
	}
	return fmt.Sprintf("%T", e)
}

var (
	reDefaultTag = regexp.MustCompile(`\s*\(default:\s*("[^"]*"|[^)]*)\)`)
	reEntryStart = regexp.MustCompile(`^\s*(?::param\s+(\w+)\s*:|@param\s+(\w+))`)
)

// ParseEntryPointComment splits a function doc comment into the program name, the
// annotation doc and the "(default: v)" tags found in parameter entries. The text after
// the closing backtick of the directive, minus a leading "that", opens the description.
func ParseEntryPointComment(text string) (prog, doc string, defaults map[string]string, ok bool) {
	defaults = map[string]string{}
	var lines []string
	current := ""

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if !ok && strings.Contains(line, DirectiveEntryPoint+" `") {
			start := strings.Index(line, "`")
			end := strings.LastIndex(line, "`")
			if start == -1 || end <= start {
				continue
			}
			fields := strings.Fields(line[start+1 : end])
			if len(fields) != 1 {
				continue
			}
			prog = fields[0]
			ok = true
			rest := strings.TrimSpace(line[end+1:])
			rest = strings.TrimPrefix(rest, "that ")
			rest = strings.TrimPrefix(rest, "-- ")
			if rest != "" {
				lines = append(lines, rest)
			}
			continue
		}

		if m := reEntryStart.FindStringSubmatch(line); m != nil {
			current = m[1] + m[2]
		}
		if m := reDefaultTag.FindStringSubmatch(line); m != nil && current != "" {
			v := strings.TrimSpace(m[1])
			if strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) && len(v) >= 2 {
				v = v[1 : len(v)-1]
			}
			defaults[current] = v
			line = reDefaultTag.ReplaceAllString(line, "")
		}
		lines = append(lines, line)
	}
	if !ok {
		return "", "", nil, false
	}
	return prog, strings.TrimSpace(strings.Join(lines, "\n")), defaults, true
}
