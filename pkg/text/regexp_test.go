package text

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestRegexpReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantCounts   map[string]int
		wantError    string
		wantModified bool
	}{
		{
			name:    "simple_replacement",
			content: "Hello World",
			rules: []ReplacementRule{
				MustCompileRule("world", `World`, "Universe"),
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantCounts:   map[string]int{"world": 1},
			wantModified: true,
		},
		{
			name:    "capture_groups",
			content: "f(a) f(b)",
			rules: []ReplacementRule{
				MustCompileRule("call", `f\((\w)\)`, "g(${1})"),
			},
			want:         "g(a) g(b)",
			wantCount:    2,
			wantCounts:   map[string]int{"call": 2},
			wantModified: true,
		},
		{
			name:    "rules_are_chained",
			content: "one",
			rules: []ReplacementRule{
				MustCompileRule("first", `one`, "two"),
				MustCompileRule("second", `two`, "three"),
			},
			want:         "three",
			wantCount:    2,
			wantCounts:   map[string]int{"first": 1, "second": 1},
			wantModified: true,
		},
		{
			name:    "replacement_back_to_original",
			content: "abc",
			rules: []ReplacementRule{
				MustCompileRule("forward", `b`, "x"),
				MustCompileRule("back", `x`, "b"),
			},
			want:         "abc",
			wantCount:    2,
			wantCounts:   map[string]int{"forward": 1, "back": 1},
			wantModified: false,
		},
		{
			name:    "no_match",
			content: "Hello World",
			rules: []ReplacementRule{
				MustCompileRule("goodbye", `Goodbye`, "Hi"),
			},
			want:         "Hello World",
			wantCounts:   map[string]int{},
			wantModified: false,
		},
		{
			name:         "empty_rules",
			content:      "Hello World",
			rules:        []ReplacementRule{},
			want:         "Hello World",
			wantCounts:   map[string]int{},
			wantModified: false,
		},
		{
			name:    "invalid_rule",
			content: "Hello World",
			rules: []ReplacementRule{
				{Name: "broken"},
			},
			wantError: "pattern is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewRegexpReplacer()
			result, err := replacer.ReplaceText(context.Background(), strings.NewReader(tt.content), tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantCounts, result.RuleCounts)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestRegexpReplacer_ReadError(t *testing.T) {
	replacer := NewRegexpReplacer()
	_, err := replacer.ReplaceText(context.Background(), iotest.ErrReader(errors.New("boom")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading content")
}

func TestRegexpReplacer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	replacer := NewRegexpReplacer()
	_, err := replacer.ReplaceText(ctx, strings.NewReader("a"), []ReplacementRule{
		MustCompileRule("a", `a`, "b"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegexpReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []ReplacementRule
		wantError string
	}{
		{
			name:  "valid_rules",
			rules: []ReplacementRule{MustCompileRule("foo", `foo`, "bar")},
		},
		{
			name:      "missing_name",
			rules:     []ReplacementRule{{Pattern: regexp.MustCompile(`foo`)}},
			wantError: "rule 0: name is required",
		},
		{
			name: "missing_pattern",
			rules: []ReplacementRule{
				MustCompileRule("foo", `foo`, "bar"),
				{Name: "empty"},
			},
			wantError: "rule 1 (empty): pattern is required",
		},
		{
			name:  "empty_rules",
			rules: []ReplacementRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegexpReplacer().ValidateRules(tt.rules)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRewrite(t *testing.T) {
	rules := []ReplacementRule{
		MustCompileRule("x", `x+`, "y"),
		{Name: "nil_pattern"},
	}

	assert.Equal(t, "ay by", Rewrite("axx bx", rules))
	assert.Equal(t, "nothing here", Rewrite("nothing here", rules))
}

func TestCountMatches(t *testing.T) {
	re := regexp.MustCompile(`ab`)
	assert.Equal(t, 3, CountMatches("ab ab ab", re))
	assert.Equal(t, 0, CountMatches("", re))
	assert.Equal(t, 0, CountMatches("ab", nil))
}

func TestCompileRule(t *testing.T) {
	_, err := CompileRule("bad", `(`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling rule bad")

	assert.Panics(t, func() {
		MustCompileRule("bad", `(`, "")
	})
}
