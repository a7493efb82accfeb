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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RegexpTextReplacer implements TextReplacer on top of RE2 expressions
type RegexpTextReplacer struct{}

// NewRegexpTextReplacer creates a new RegexpTextReplacer
func NewRegexpTextReplacer() *RegexpTextReplacer {
	return &RegexpTextReplacer{}
}

// Compile returns the expression a rule matches with.
// Word boundaries of WholeWord rules are checked per match, not by the expression.
func (rule ReplacementRule) Compile() (*regexp.Regexp, error) {
	expr := rule.FromText
	if !rule.IsRegexp {
		expr = regexp.QuoteMeta(expr)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling %q: %w", rule.FromText, err)
	}
	return re, nil
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		RuleCounts:      make([]int, len(rules)),
	}

	currentContent := string(originalContent)
	for i, rule := range rules {
		if rule.FromText == "" {
			continue
		}

		re, err := rule.Compile()
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		newContent, count := replace(re, currentContent, rule.ToText, rule.Limit, rule.WholeWord)
		if count > 0 {
			result.WasModified = true
			result.ReplacementCount += count
			result.RuleCounts[i] = count
			zerolog.Ctx(ctx).Trace().
				Str("from", rule.FromText).
				Str("to", rule.ToText).
				Int("count", count).
				Msg("applied replacement rule")
		}

		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.Limit < 0 {
			return errors.Errorf("rule %d: limit must not be negative", i)
		}
		if _, err := rule.Compile(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// replace substitutes at most limit matches (all when limit is zero) with the literal to.
// With wholeWord set, matches that do not sit on word boundaries at both ends are left alone.
func replace(re *regexp.Regexp, s, to string, limit int, wholeWord bool) (string, int) {
	n := -1
	if limit > 0 && !wholeWord {
		n = limit
	}

	matches := re.FindAllStringIndex(s, n)
	if len(matches) == 0 {
		return s, 0
	}

	var b strings.Builder
	b.Grow(len(s))
	last, count := 0, 0
	for _, m := range matches {
		if limit > 0 && count == limit {
			break
		}
		if wholeWord && !(isBoundary(s, m[0]) && isBoundary(s, m[1])) {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(to)
		last = m[1]
		count++
	}
	if count == 0 {
		return s, 0
	}
	b.WriteString(s[last:])

	return b.String(), count
}

// isBoundary reports whether i sits between a word rune and a non-word rune.
// Unlike RE2's \b, letters and digits outside ASCII count as word runes.
func isBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
