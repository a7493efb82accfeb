package text

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexpTextReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantError    string
		wantModified bool
	}{
		{
			name:    "literal_replacement",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "World", ToText: "Universe"},
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "literal_is_not_a_pattern",
			content: "a.b axb",
			rules: []ReplacementRule{
				{FromText: "a.b", ToText: "c"},
			},
			want:         "c axb",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "whole_word_skips_longer_identifiers",
			content: "model.Get(models, remodel, model_x, model)",
			rules: []ReplacementRule{
				WholeWordRule("model", "context.Model"),
			},
			want:         "context.Model.Get(models, remodel, model_x, context.Model)",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "whole_word_respects_unicode_identifiers",
			content: "var modelÄ = 1; var ümethod = 2; var model9 = modelé; return (model, method);",
			rules: []ReplacementRule{
				WholeWordRule("model", "context.Model"),
				WholeWordRule("method", "context.Method"),
			},
			want:         "var modelÄ = 1; var ümethod = 2; var model9 = modelé; return (context.Model, context.Method);",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "whole_word_non_ascii_token",
			content: "(Äb) xÄb",
			rules: []ReplacementRule{
				WholeWordRule("Äb", "c"),
			},
			want:         "(c) xÄb",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "whole_word_limit_counts_boundary_matches_only",
			content: "ümodel model model",
			rules: []ReplacementRule{
				{FromText: "model", ToText: "m", WholeWord: true, Limit: 1},
			},
			want:         "ümodel m model",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "rules_apply_in_order",
			content: "visit(method)",
			rules: []ReplacementRule{
				WholeWordRule("visit", "context.Visit"),
				WholeWordRule("method", "context.Method"),
			},
			want:         "context.Visit(context.Method)",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "later_rule_sees_earlier_output",
			content: "a",
			rules: []ReplacementRule{
				{FromText: "a", ToText: "b"},
				{FromText: "b", ToText: "c"},
			},
			want:         "c",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "limit_replaces_first_only",
			content: "f(x) f(x)",
			rules: []ReplacementRule{
				SignatureRule(`f\(x\)`, "g()"),
			},
			want:         "g() f(x)",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "replacement_is_literal",
			content: "price",
			rules: []ReplacementRule{
				{FromText: `(p)rice`, ToText: "$1 cost", IsRegexp: true},
			},
			want:         "$1 cost",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "no_match",
			content: "Hello World",
			rules: []ReplacementRule{
				WholeWordRule("Wor", "Hi"),
			},
			want:         "Hello World",
			wantModified: false,
		},
		{
			name:    "empty_from_text_is_skipped",
			content: "Hello",
			rules: []ReplacementRule{
				{FromText: "", ToText: "x"},
			},
			want:         "Hello",
			wantModified: false,
		},
		{
			name:         "empty_rules",
			content:      "Hello World",
			rules:        []ReplacementRule{},
			want:         "Hello World",
			wantModified: false,
		},
		{
			name:    "invalid_pattern",
			content: "Hello",
			rules: []ReplacementRule{
				{FromText: "(", IsRegexp: true},
			},
			wantError: "rule 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewRegexpTextReplacer()
			result, err := replacer.ReplaceText(
				context.Background(),
				strings.NewReader(tt.content),
				tt.rules,
			)

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
			assert.Equal(t, tt.wantModified, result.WasModified)
			assert.Len(t, result.RuleCounts, len(tt.rules))
		})
	}
}

func TestRegexpTextReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []ReplacementRule
		wantError string
	}{
		{
			name: "valid_rules",
			rules: []ReplacementRule{
				WholeWordRule("model", "context.Model"),
				SignatureRule(`TryOptimize\(`, "TryOptimize("),
			},
		},
		{
			name:      "missing_from_text",
			rules:     []ReplacementRule{{ToText: "bar"}},
			wantError: "from_text is required",
		},
		{
			name:      "negative_limit",
			rules:     []ReplacementRule{{FromText: "foo", Limit: -1}},
			wantError: "limit must not be negative",
		},
		{
			name:      "bad_regexp",
			rules:     []ReplacementRule{{FromText: "a[", IsRegexp: true}},
			wantError: "rule 0",
		},
		{
			name:  "empty_rules",
			rules: []ReplacementRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewRegexpTextReplacer()
			err := replacer.ValidateRules(tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}
