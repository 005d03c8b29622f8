package opterator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arran4/go-opterator/model"
)

func invocationMessage(t *testing.T, err error) string {
	t.Helper()
	var ie *InvocationError
	require.True(t, errors.As(err, &ie), "want *InvocationError, got %T: %v", err, err)
	assert.ErrorIs(t, err, ErrInvocation)
	assert.NotErrorIs(t, err, ErrConfig)
	return ie.Message
}

func TestParseArity(t *testing.T) {
	sig := model.NewSignature().Required("a", "b").MustBuild()
	p, _, _ := testParser(t, sig, "")

	call, err := p.Parse([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, call.Args)
	assert.Nil(t, call.Rest)

	_, err = p.Parse([]string{"x"})
	assert.Equal(t, "Not enough arguments.", invocationMessage(t, err))

	_, err = p.Parse([]string{"x", "y", "z"})
	assert.Equal(t, "Too many arguments.", invocationMessage(t, err))
}

func TestParseNoParameters(t *testing.T) {
	p, _, _ := testParser(t, model.NewSignature().MustBuild(), "a docstring")

	call, err := p.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, call.Args)

	_, err = p.Parse([]string{"invalidarg"})
	assert.Equal(t, "Too many arguments.", invocationMessage(t, err))

	_, err = p.Parse([]string{"--invalidopt"})
	assert.Contains(t, invocationMessage(t, err), "unknown flag: --invalidopt")
}

func TestParseRequiredEmptyToken(t *testing.T) {
	sig := model.NewSignature().Required("a", "b").MustBuild()
	p, _, _ := testParser(t, sig, "")
	_, err := p.Parse([]string{"", "y"})
	assert.Equal(t, "a is required.", invocationMessage(t, err))
}

func TestParseVariadicAbsorption(t *testing.T) {
	sig := model.NewSignature().Required("a", "b").Variadic("rest").MustBuild()
	p, _, _ := testParser(t, sig, "")

	call, err := p.Parse([]string{"x", "y", "p", "q"})
	require.NoError(t, err)
	assert.Equal(t, "x", call.String("a"))
	assert.Equal(t, "y", call.String("b"))
	assert.Equal(t, []string{"p", "q"}, call.Rest)
	assert.Equal(t, []any{"x", "y", []string{"p", "q"}}, call.Args)

	call, err = p.Parse([]string{"x", "y"})
	require.NoError(t, err)
	assert.NotNil(t, call.Rest)
	assert.Empty(t, call.Rest)

	_, err = p.Parse([]string{"x"})
	assert.Equal(t, "Not enough arguments.", invocationMessage(t, err))
}

func TestParseOptionalDefaultingAnyPosition(t *testing.T) {
	sig := model.NewSignature().Required("a", "b").Optional("verbose", false).MustBuild()
	p, _, _ := testParser(t, sig, ":param verbose: -v be loud")

	call, err := p.Parse([]string{"x", "y"})
	require.NoError(t, err)
	assert.False(t, call.Bool("verbose"))

	for _, args := range [][]string{
		{"-v", "x", "y"},
		{"x", "-v", "y"},
		{"x", "y", "-v"},
	} {
		call, err := p.Parse(args)
		require.NoError(t, err, "%v", args)
		assert.Equal(t, []any{"x", "y", true}, call.Args, "%v", args)
	}
}

func TestParsePolicies(t *testing.T) {
	sig := model.NewSignature().
		Optional("color", true).
		Optional("format", []string{"json", "yaml"}).
		Optional("include", []string{}).
		Optional("name", nil).
		Optional("suffix", "~").
		MustBuild()
	p, _, _ := testParser(t, sig, "")

	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "defaults",
			args: nil,
			want: map[string]any{
				"color":   true,
				"format":  []string{"json", "yaml"},
				"include": []string{},
				"name":    nil,
				"suffix":  "~",
			},
		},
		{
			name: "everything set",
			args: []string{"--color", "-f", "yaml", "-i", "a", "--include", "b", "--name", "n", "-s", ".bak", "-s", ".old"},
			want: map[string]any{
				"color":   false,
				"format":  []string{"yaml"},
				"include": []string{"a", "b"},
				"name":    "n",
				"suffix":  ".old",
			},
		},
		{
			name: "combined short flags",
			args: []string{"-ci", "x", "--format=json", "--format=json"},
			want: map[string]any{
				"color":   false,
				"format":  []string{"json", "json"},
				"include": []string{"x"},
				"name":    nil,
				"suffix":  "~",
			},
		},
		{
			name: "empty store value",
			args: []string{"--name="},
			want: map[string]any{
				"color":   true,
				"format":  []string{"json", "yaml"},
				"include": []string{},
				"name":    "",
				"suffix":  "~",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := p.Parse(tt.args)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, call.Named); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAbsentText(t *testing.T) {
	sig := model.NewSignature().Optional("name", nil).MustBuild()
	p, _, _ := testParser(t, sig, "")

	call, err := p.Parse(nil)
	require.NoError(t, err)
	assert.False(t, call.Set("name"))
	assert.Equal(t, "", call.String("name"))

	call, err = p.Parse([]string{"-n", ""})
	require.NoError(t, err)
	assert.True(t, call.Set("name"))
}

func TestParseInvalidChoice(t *testing.T) {
	sig := model.NewSignature().Optional("format", []string{"json", "yaml"}).MustBuild()
	p, _, _ := testParser(t, sig, "")
	_, err := p.Parse([]string{"--format", "xml"})
	assert.Equal(t, `invalid choice: "xml" (choose from "json", "yaml")`, invocationMessage(t, err))
	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "format", ie.Param)

	_, err = p.Parse([]string{"-f", "json", "-f", "toml"})
	assert.Equal(t, `invalid choice: "toml" (choose from "json", "yaml")`, invocationMessage(t, err))
}

func TestParseMissingFlagValue(t *testing.T) {
	sig := model.NewSignature().Optional("suffix", "~").MustBuild()
	p, _, _ := testParser(t, sig, "")
	_, err := p.Parse([]string{"--suffix"})
	assert.NotEmpty(t, invocationMessage(t, err))
}

func TestParseExplicitFlagSpellings(t *testing.T) {
	sig := model.NewSignature().
		Required("var1").
		Optional("mine", "novalue").
		Optional("cols", "").
		MustBuild()
	doc := `List files.

:param mine: -m short only
:param cols: -w --width --cols screen width`
	p, _, _ := testParser(t, sig, doc)

	call, err := p.Parse([]string{"hello", "-m", "avalue", "--cols", "80"})
	require.NoError(t, err)
	assert.Equal(t, []any{"hello", "avalue", "80"}, call.Args)

	call, err = p.Parse([]string{"-w", "100", "hello"})
	require.NoError(t, err)
	assert.Equal(t, "100", call.String("cols"))
	assert.Equal(t, "novalue", call.String("mine"))

	_, err = p.Parse([]string{"hello", "--mine", "x"})
	assert.Contains(t, invocationMessage(t, err), "unknown flag: --mine")
}

func TestParseDoubleDashTerminator(t *testing.T) {
	sig := model.NewSignature().Optional("verbose", false).Variadic("args").MustBuild()
	p, _, _ := testParser(t, sig, "")

	call, err := p.Parse([]string{"-v", "--", "-v", "--verbose"})
	require.NoError(t, err)
	assert.True(t, call.Bool("verbose"))
	assert.Equal(t, []string{"-v", "--verbose"}, call.Rest)
}

func TestParseHelp(t *testing.T) {
	sig := model.NewSignature().Required("a").MustBuild()
	p, stdout, stderr := testParser(t, sig, "")
	for _, args := range [][]string{{"-h"}, {"--help"}, {"x", "-h"}, {"--help", "x", "y", "z"}} {
		_, err := p.Parse(args)
		assert.ErrorIs(t, err, ErrHelp, "%v", args)
	}
	assert.Zero(t, stdout.Len(), "Parse must not write")
	assert.Zero(t, stderr.Len(), "Parse must not write")
}

func TestParserIsReusable(t *testing.T) {
	sig := model.NewSignature().Optional("include", []string{}).MustBuild()
	p, _, _ := testParser(t, sig, "")

	call, err := p.Parse([]string{"-i", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, call.Strings("include"))

	call, err = p.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, call.Strings("include"))
}

func TestAdapt(t *testing.T) {
	sig := model.NewSignature().
		Required("src").
		Optional("verbose", false).
		Required("dst").
		Variadic("rest").
		MustBuild()

	res := &model.ParsedResult{
		Options:     map[string]any{"verbose": true},
		Positionals: []string{"a", "b", "c"},
	}
	call, err := Adapt(res, sig)
	require.NoError(t, err)
	want := &Call{
		Args:  []any{"a", true, "b", []string{"c"}},
		Named: map[string]any{"src": "a", "verbose": true, "dst": "b", "rest": []string{"c"}},
		Rest:  []string{"c"},
	}
	if diff := cmp.Diff(want, call); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"a", "b", "c"}, res.Positionals, "Adapt must not consume the result")

	call, err = Adapt(&model.ParsedResult{Positionals: []string{"a", "b"}}, sig)
	require.NoError(t, err)
	assert.Equal(t, false, call.Named["verbose"], "missing option falls back to the default")
}

func TestAdaptNilInputs(t *testing.T) {
	sig := model.NewSignature().Required("src").MustBuild()

	_, err := Adapt(nil, sig)
	assert.EqualError(t, err, "nil parse result")

	_, err = Adapt(&model.ParsedResult{Positionals: []string{"a"}}, nil)
	assert.ErrorIs(t, err, ErrConfig)
}
