// Package matcher matches record fields against glob or regex patterns.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex when the pattern carries regex-only syntax.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher checks strings against one compiled pattern.
type Matcher struct {
	pattern         string
	patternType     PatternType
	compiled        *regexp.Regexp
	caseInsensitive bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithCaseInsensitive folds case before matching.
func WithCaseInsensitive() Option {
	return func(m *Matcher) {
		m.caseInsensitive = true
	}
}

// New compiles pattern. Glob patterns use path.Match semantics, so "*"
// does not cross a "/".
func New(patternType PatternType, pattern string, opts ...Option) (*Matcher, error) {
	m := &Matcher{pattern: pattern, patternType: patternType}
	for _, opt := range opts {
		opt(m)
	}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	switch m.patternType {
	case Glob:
		if m.caseInsensitive {
			m.pattern = strings.ToLower(pattern)
		}
		if _, err := path.Match(m.pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		expr := pattern
		if m.caseInsensitive && !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}
	return m, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(patternType PatternType, pattern string, opts ...Option) *Matcher {
	m, err := New(patternType, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether input matches the pattern.
func (m *Matcher) Match(input string) bool {
	if m.patternType == Regex {
		return m.compiled.MatchString(input)
	}
	if m.caseInsensitive {
		input = strings.ToLower(input)
	}
	ok, _ := path.Match(m.pattern, input)
	return ok
}

// Type returns the resolved pattern type.
func (m *Matcher) Type() PatternType {
	return m.patternType
}

func detectPatternType(pattern string) PatternType {
	for _, indicator := range []string{"^", "$", "\\d", "\\w", "\\s", "(?", "{", "}", "+", "|", "(", ")"} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}
