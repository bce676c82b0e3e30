// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"context"
	"io"
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RegexpReplacer implements TextReplacer using regular expression rules
type RegexpReplacer struct{}

// NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{}
}

// Rewrite applies every rule to text in sequence and returns the result.
// Text that no rule matches is returned unchanged.
func Rewrite(text string, rules []ReplacementRule) string {
	for _, rule := range rules {
		if rule.Pattern == nil {
			continue
		}
		text = rule.Pattern.ReplaceAllString(text, rule.Template)
	}
	return text
}

// CountMatches returns the number of non-overlapping matches of pattern in text
func CountMatches(text string, pattern *regexp.Regexp) int {
	if pattern == nil {
		return 0
	}
	return len(pattern.FindAllStringIndex(text, -1))
}

// CompileRule builds a rule from pattern source
func CompileRule(name, pattern, template string) (ReplacementRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ReplacementRule{}, errors.Errorf("compiling rule %s: %w", name, err)
	}
	return ReplacementRule{Name: name, Pattern: re, Template: template}, nil
}

// MustCompileRule is like CompileRule but panics on a bad pattern
func MustCompileRule(name, pattern, template string) ReplacementRule {
	rule, err := CompileRule(name, pattern, template)
	if err != nil {
		panic(err)
	}
	return rule
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if err := r.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		RuleCounts:      make(map[string]int),
	}

	current := string(originalContent)
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("replacing text: %w", err)
		}

		n := CountMatches(current, rule.Pattern)
		if n == 0 {
			continue
		}

		current = rule.Pattern.ReplaceAllString(current, rule.Template)
		result.RuleCounts[rule.Name] += n
		result.ReplacementCount += n

		zerolog.Ctx(ctx).Trace().Str("rule", rule.Name).Int("matches", n).Msg("rule applied")
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = current != string(originalContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if rule.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
	}
	return nil
}
