package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		typ      PatternType
		pattern  string
		fold     bool
		input    string
		want     bool
		wantType PatternType
	}{
		{name: "exact glob", typ: Glob, pattern: "tools", input: "tools", want: true, wantType: Glob},
		{name: "glob star", typ: Glob, pattern: "to*", input: "toys", want: true, wantType: Glob},
		{name: "glob case sensitive", typ: Glob, pattern: "tools", input: "Tools", want: false, wantType: Glob},
		{name: "glob folded", typ: Glob, pattern: "TOOLS", fold: true, input: "tools", want: true, wantType: Glob},
		{name: "glob does not cross slash", typ: Glob, pattern: "home*", input: "home/garden", want: false, wantType: Glob},
		{name: "regex", typ: Regex, pattern: "^to(ol|y)s$", input: "toys", want: true, wantType: Regex},
		{name: "auto detects regex", typ: Auto, pattern: "^t.+s$", input: "tools", want: true, wantType: Regex},
		{name: "auto defaults to glob", typ: Auto, pattern: "t?ys", input: "toys", want: true, wantType: Glob},
		{name: "regex folded", typ: Regex, pattern: "^TOYS$", fold: true, input: "toys", want: true, wantType: Regex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.fold {
				opts = append(opts, WithCaseInsensitive())
			}
			m, err := New(tt.typ, tt.pattern, opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.input))
			assert.Equal(t, tt.wantType, m.Type())
		})
	}
}

func TestNewInvalid(t *testing.T) {
	_, err := New(Glob, "[", WithCaseInsensitive())
	assert.Error(t, err)

	_, err = New(Regex, "(")
	assert.Error(t, err)

	_, err = New(PatternType(9), "x")
	assert.Error(t, err)

	assert.Panics(t, func() { MustNew(Regex, "(") })
}

func TestPatternTypeString(t *testing.T) {
	assert.Equal(t, "glob", Glob.String())
	assert.Equal(t, "regex", Regex.String())
	assert.Equal(t, "auto", Auto.String())
	assert.Equal(t, "unknown", PatternType(9).String())
}
