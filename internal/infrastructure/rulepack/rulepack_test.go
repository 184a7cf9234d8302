package rulepack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lens-rules/internal/domain/rule"
)

func TestEmbedded_PresetsCompile(t *testing.T) {
	p := Embedded()
	require.Equal(t, []string{"default", "uncertain"}, p.Names())

	for _, name := range p.Names() {
		text, err := p.Text(name)
		require.NoError(t, err)
		require.NotContains(t, text, "{")

		rs, err := rule.Compile(text)
		require.NoError(t, err, name)
		require.Positive(t, rs.Len())
	}
}

func TestEmbedded_DefaultClassifies(t *testing.T) {
	text, err := Embedded().Text("default")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(text, "0101 x>1329 x<=1710 w>7*2.5\n"))

	rs, err := rule.Compile(text)
	require.NoError(t, err)

	// узкий дефект варианта 2 в первой зоне не требует внимания
	_, ok := rs.Evaluate(rule.View{Code: "0101", X: 1500, W: 10, Variant: 2, HasVariant: true})
	require.False(t, ok)

	v, ok := rs.Evaluate(rule.View{Code: "0101", X: 1500, W: 20})
	require.True(t, ok)
	require.Equal(t, 1, v.Line)

	v, ok = rs.Evaluate(rule.View{Code: "0101", X: 1800, W: 31})
	require.True(t, ok)
	require.Equal(t, 3, v.Line)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("rulesets:\n  a: \"0101 x>{nope}\"\n"))
	require.ErrorIs(t, err, ErrUnresolvedVar)

	_, err = Parse([]byte("vars: [1, 2]"))
	require.Error(t, err)

	_, err = Parse([]byte("vars:\n  k: [1]\n"))
	require.Error(t, err)

	p, err := Parse([]byte("vars:\n  lim: \"100\"\nrulesets:\n  one: \"0101 x>{lim}\"\n"))
	require.NoError(t, err)
	text, err := p.Text("one")
	require.NoError(t, err)
	require.Equal(t, "0101 x>100", text)

	_, err = p.Text("two")
	require.ErrorIs(t, err, ErrPresetNotFound)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vars:\n  k: 2.5\nrulesets:\n  s: \"1702 w>3*{k}\"\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	text, err := p.Text("s")
	require.NoError(t, err)
	require.Equal(t, "1702 w>3*2.5", text)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
