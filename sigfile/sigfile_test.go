package sigfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arran4/go-opterator/model"
)

const copyYAML = `program: copy
doc: |
  Copy files.

  :param recursive: -r --recursive copy directories recursively
parameters:
  - name: src
  - name: dst
    kind: required
  - name: recursive
    kind: optional
    default: false
  - name: format
    kind: optional
    default: [json, yaml]
  - name: suffix
    kind: optional
    default: "~"
  - name: name
    kind: optional
  - name: others
    kind: variadic
`

const copyTOML = `program = "copy"
doc = """
Copy files.

:param recursive: -r --recursive copy directories recursively
"""

[[parameters]]
name = "src"

[[parameters]]
name = "dst"
kind = "required"

[[parameters]]
name = "recursive"
kind = "optional"
default = false

[[parameters]]
name = "format"
kind = "optional"
default = ["json", "yaml"]

[[parameters]]
name = "suffix"
kind = "optional"
default = "~"

[[parameters]]
name = "name"
kind = "optional"

[[parameters]]
name = "others"
kind = "variadic"
`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"copy.yaml": {Data: []byte(copyYAML)},
		"copy.yml":  {Data: []byte(copyYAML)},
		"copy.toml": {Data: []byte(copyTOML)},
	}
	for _, name := range []string{"copy.yaml", "copy.yml", "copy.toml"} {
		t.Run(name, func(t *testing.T) {
			f, err := LoadFS(fsys, name)
			require.NoError(t, err)
			assert.Equal(t, "copy", f.Program)

			sig, err := f.Signature()
			require.NoError(t, err)
			assert.Equal(t, `(src, dst, recursive=false, format=["json", "yaml"], suffix="~", name=none, *others)`, sig.String())

			p, err := f.Parser()
			require.NoError(t, err)
			assert.Equal(t, "copy [options] src dst [others]", p.Model().UsageLine())
			assert.Equal(t, "Copy files.", p.Model().Description)

			call, err := p.Parse([]string{"a", "b", "-r", "c"})
			require.NoError(t, err)
			assert.Equal(t, []any{"a", "b", true, []string{"json", "yaml"}, "~", nil, []string{"c"}}, call.Args)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copy.toml")
	require.NoError(t, os.WriteFile(path, []byte(copyTOML), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Parameters, 7)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":     YAML,
		"a.YML":      YAML,
		"dir/a.toml": TOML,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("a.json")
	assert.ErrorContains(t, err, `unsupported signature file extension ".json"`)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("program: x\nprogramme: y\n"), YAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("program = \"x\"\nprogramme = \"y\"\n"), TOML)
	assert.ErrorContains(t, err, "unknown keys: programme")

	_, err = Decode(strings.NewReader("program: x\n---\nprogram: y\n"), YAML)
	assert.ErrorContains(t, err, "multiple YAML documents")

	_, err = Decode(strings.NewReader(""), YAML)
	assert.ErrorContains(t, err, "empty signature file")

	_, err = Decode(strings.NewReader(""), Format("ini"))
	assert.Error(t, err)
}

func TestSignatureErrors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantParam string
	}{
		{
			name:      "unknown kind",
			doc:       "parameters:\n  - name: a\n    kind: sometimes\n",
			wantParam: "a",
		},
		{
			name:      "required with default",
			doc:       "parameters:\n  - name: a\n    default: x\n",
			wantParam: "a",
		},
		{
			name:      "variadic with default",
			doc:       "parameters:\n  - name: a\n    kind: variadic\n    default: [x]\n",
			wantParam: "a",
		},
		{
			name:      "number default",
			doc:       "parameters:\n  - name: n\n    kind: optional\n    default: 3\n",
			wantParam: "n",
		},
		{
			name:      "mixed list default",
			doc:       "parameters:\n  - name: l\n    kind: optional\n    default: [a, 1]\n",
			wantParam: "l",
		},
		{
			name:      "duplicate name",
			doc:       "parameters:\n  - name: a\n  - name: a\n",
			wantParam: "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(strings.NewReader(tt.doc), YAML)
			require.NoError(t, err)
			_, err = f.Signature()
			var ce *model.ConfigError
			require.True(t, errors.As(err, &ce), "want *ConfigError, got %v", err)
			assert.Equal(t, tt.wantParam, ce.Param)
		})
	}
}

func TestFileOptions(t *testing.T) {
	f, err := Decode(strings.NewReader(`program: paint
kebab_flags: true
doc_format: atparam
doc: |
  @param maxWidth store -w how wide
parameters:
  - name: showDetails
    kind: optional
    default: false
  - name: maxWidth
    kind: optional
    default: "80"
`), YAML)
	require.NoError(t, err)
	assert.Len(t, f.Options(), 3)

	p, err := f.Parser()
	require.NoError(t, err)
	opts := p.Model().Options
	require.Len(t, opts, 2)
	assert.Equal(t, []string{"-s", "--show-details"}, opts[0].Flags)
	assert.Equal(t, []string{"-w"}, opts[1].Flags)
	assert.Equal(t, model.Store, opts[1].Policy)
}
