package main

import (
	"bytes"
	"errors"
	"testing"

	sexp "github.com/epronk/xtickertape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserOptions(t *testing.T) {
	opts, err := parserOptions("", 0)
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = parserOptions("1KiB", 64)
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	_, err = parserOptions("lots", 0)
	assert.Error(t, err)
	_, err = parserOptions("", -1)
	assert.Error(t, err)
}

func TestRunRead_expressions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		eval bool
		want string
	}{
		{"xpass: atoms", []string{"1 2.5 ?x"}, false, "1\n2.500000e+00\n?x\n"},
		{"xpass: several args", []string{"(a)", "'b"}, false, "(a)\n(quote b)\n"},
		{"xpass: long", []string{"12345678901l"}, false, "12345678901L\n"},
		{"xpass: eval", []string{`"s" sym (f x) 7`}, true, "\"s\"\nnil\nnil\n7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runRead(&out, tt.args, true, tt.eval, nil))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunRead_errors(t *testing.T) {
	live := sexp.Live()
	var out bytes.Buffer
	err := runRead(&out, []string{"(ok) (a b", "never read"}, true, false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sexp.ErrSyntax)
	assert.Contains(t, err.Error(), "argument 1")
	assert.Equal(t, "(ok)\n", out.String())
	assert.Equal(t, live, sexp.Live())

	out.Reset()
	opts, err := parserOptions("8B", 0)
	require.NoError(t, err)
	err = runRead(&out, []string{`"a string longer than eight bytes"`}, true, false, opts)
	assert.ErrorIs(t, err, sexp.ErrNoMemory)

	var perr *sexp.ParseError
	err = runRead(&out, []string{"(1 2 ,)"}, true, false, nil)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ",", perr.Token)
}

func TestReplLine(t *testing.T) {
	var out bytes.Buffer
	s := newSession(false, printTo(&out))
	defer s.close()

	prompt, err := replLine(s, `(subscribe "tick`)
	require.NoError(t, err)
	assert.Equal(t, contPrompt, prompt)

	prompt, err = replLine(s, `ertape") 42`)
	require.NoError(t, err)
	assert.Equal(t, newPrompt, prompt)
	assert.Equal(t, "(subscribe \"tick\\nertape\")\n42\n", out.String())

	prompt, err = replLine(s, "(a .)")
	assert.ErrorIs(t, err, sexp.ErrSyntax)
	assert.Equal(t, newPrompt, prompt)

	out.Reset()
	_, err = replLine(s, "'after")
	require.NoError(t, err)
	assert.Equal(t, "(quote after)\n", out.String())
}
