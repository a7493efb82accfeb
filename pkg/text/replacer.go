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
)

// ReplacementRule defines a single text replacement operation
type ReplacementRule struct {
	// FromText is the text to replace, or a regular expression when IsRegexp is set
	FromText string

	// ToText is the replacement text, always inserted literally
	ToText string

	// IsRegexp treats FromText as an RE2 expression
	IsRegexp bool

	// WholeWord only matches FromText between word boundaries
	WholeWord bool

	// Limit caps the number of replacements, zero means no limit
	Limit int
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// RuleCounts holds the replacement count of each rule, by rule index
	RuleCounts []int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content, in order.
	// Each rule sees the output of the rule before it.
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

// WholeWordRule replaces every whole-word occurrence of from with to
func WholeWordRule(from, to string) ReplacementRule {
	return ReplacementRule{FromText: from, ToText: to, WholeWord: true}
}

// SignatureRule replaces the first match of pattern with replacement
func SignatureRule(pattern, replacement string) ReplacementRule {
	return ReplacementRule{FromText: pattern, ToText: replacement, IsRegexp: true, Limit: 1}
}
