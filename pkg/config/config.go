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

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📁 DefaultBaseDir is where the function optimizers live, relative to the repository root
const DefaultBaseDir = "Vectorize/ConstExpr.SourceGenerator/Optimizers/FunctionOptimizers"

// 🔍 Default signature shapes
const (
	DefaultSignaturePattern = `public override bool TryOptimize\(SemanticModel model, IMethodSymbol method, InvocationExpressionSyntax invocation, IList<ExpressionSyntax> parameters, Func<SyntaxNode, ExpressionSyntax\?> visit, Func<LambdaExpressionSyntax, LambdaExpression\?> getLambda, IDictionary<SyntaxNode, bool> additionalMethods, out SyntaxNode\? result\)`
	DefaultSignatureReplacement = `public override bool TryOptimize(FunctionOptimizerContext context, out SyntaxNode? result)`
	DefaultMigratedMarker       = `public override bool TryOptimize(FunctionOptimizerContext context`
	DefaultLegacyMarker         = `public override bool TryOptimize(SemanticModel`
)

// 📂 DefaultSearchDirs are tried in order, the first hit wins
var DefaultSearchDirs = []string{"LinqOptimizers", "MathOptimizers"}

// 📋 DefaultTargets are the optimizers still on the old signature
var DefaultTargets = []string{
	"LastFunctionOptimizer.cs",
	"LastOrDefaultFunctionOptimizer.cs",
	"MinByFunctionOptimizer.cs",
	"FirstOrDefaultFunctionOptimizer.cs",
	"MinFunctionOptimizer.cs",
	"DistinctByFunctionOptimizer.cs",
	"LongCountFunctionOptimizer.cs",
	"OrderByFunctionOptimizer.cs",
	"ReverseFunctionOptimizer.cs",
	"OrderDescendingFunctionOptimizer.cs",
	"OfTypeFunctionOptimizer.cs",
	"MaxByFunctionOptimizer.cs",
	"SelectFunctionOptimizer.cs",
	"OrderFunctionOptimizer.cs",
	"OrderByDescendingFunctionOptimizer.cs",
	"MaxFunctionOptimizer.cs",
	"PrependFunctionOptimizer.cs",
	"SingleOrDefaultFunctionOptimizer.cs",
	"SkipLastFunctionOptimizer.cs",
	"SelectManyFunctionOptimizer.cs",
	"TakeLastFunctionOptimizer.cs",
	"SkipFunctionOptimizer.cs",
	"SkipWhileFunctionOptimizer.cs",
	"SequenceEqualFunctionOptimizer.cs",
	"TakeWhileFunctionOptimizer.cs",
	"ToArrayFunctionOptimizer.cs",
	"SumFunctionOptimizer.cs",
	"ShuffleFunctionOptimizer.cs",
	"ThenByDescendingFunctionOptimizer.cs",
	"UnionFunctionOptimizer.cs",
	"TakeFunctionOptimizer.cs",
	"ToHashSetFunctionOptimizer.cs",
	"ThenByFunctionOptimizer.cs",
	"SingleFunctionOptimizer.cs",
	"WhereFunctionOptimizer.cs",
	"ToListFunctionOptimizer.cs",
	"ZipFunctionOptimizer.cs",
	"UnionByFunctionOptimizer.cs",
	"BitDecrementFunctionOptimizer.cs",
	"BitIncrementFunctionOptimizer.cs",
	"CastFunctionOptimizer.cs",
	"ChunkFunctionOptimizer.cs",
}

// 🔄 DefaultTokens map the old parameters onto the context object
var DefaultTokens = []TokenRule{
	{From: "model", To: "context.Model"},
	{From: "method", To: "context.Method"},
	{From: "invocation", To: "context.Invocation"},
	{From: "parameters", To: "context.Parameters"},
	{From: "visit", To: "context.Visit"},
	{From: "getLambda", To: "context.GetLambda"},
	{From: "additionalMethods", To: "context.AdditionalMethods"},
}

// ✍️ Signature describes the declaration being rewritten
type Signature struct {
	Pattern        string `json:"pattern"`         // RE2 pattern of the old declaration
	Replacement    string `json:"replacement"`     // New declaration, inserted literally
	MigratedMarker string `json:"migrated_marker"` // Present once a file is migrated
	LegacyMarker   string `json:"legacy_marker"`   // Present while a file still needs migrating
}

// 🔤 TokenRule maps a bare identifier onto its replacement
type TokenRule struct {
	From string `json:"from" yaml:"from" hcl:"from"`
	To   string `json:"to" yaml:"to" hcl:"to"`
}

// 📚 Config represents the complete configuration
type Config struct {
	BaseDir        string      `json:"base_dir"`
	SearchDirs     []string    `json:"search_dirs"`
	Targets        []string    `json:"targets"`
	IgnorePatterns []string    `json:"ignore_patterns,omitempty"`
	Signature      Signature   `json:"signature"`
	Tokens         []TokenRule `json:"tokens"`
	Backup         bool        `json:"backup,omitempty"`

	location string
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	return &Config{
		BaseDir:    DefaultBaseDir,
		SearchDirs: append([]string(nil), DefaultSearchDirs...),
		Targets:    append([]string(nil), DefaultTargets...),
		Signature: Signature{
			Pattern:        DefaultSignaturePattern,
			Replacement:    DefaultSignatureReplacement,
			MigratedMarker: DefaultMigratedMarker,
			LegacyMarker:   DefaultLegacyMarker,
		},
		Tokens: append([]TokenRule(nil), DefaultTokens...),
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate(ctx context.Context) error {
	if cfg.BaseDir == "" {
		return errors.Errorf("base_dir is required")
	}
	if len(cfg.SearchDirs) == 0 {
		return errors.Errorf("search_dirs must not be empty")
	}
	if len(cfg.Targets) == 0 {
		return errors.Errorf("targets must not be empty")
	}
	for i, dir := range cfg.SearchDirs {
		if dir == "" {
			return errors.Errorf("search_dirs[%d] is empty", i)
		}
	}
	for i, target := range cfg.Targets {
		if target == "" {
			return errors.Errorf("targets[%d] is empty", i)
		}
	}
	for i, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore_patterns[%d]: invalid pattern %q", i, pattern)
		}
	}

	if cfg.Signature.Pattern == "" {
		return errors.Errorf("signature.pattern is required")
	}
	if _, err := regexp.Compile(cfg.Signature.Pattern); err != nil {
		return errors.Errorf("signature.pattern: %w", err)
	}
	if cfg.Signature.MigratedMarker == "" {
		return errors.Errorf("signature.migrated_marker is required")
	}
	if cfg.Signature.LegacyMarker == "" {
		return errors.Errorf("signature.legacy_marker is required")
	}
	for i, tok := range cfg.Tokens {
		if tok.From == "" {
			return errors.Errorf("tokens[%d]: from is required", i)
		}
	}

	cfg.BaseDir = filepath.Clean(cfg.BaseDir)
	for i, dir := range cfg.SearchDirs {
		cfg.SearchDirs[i] = filepath.Clean(dir)
	}

	zerolog.Ctx(ctx).Debug().
		Str("base_dir", cfg.BaseDir).
		Strs("search_dirs", cfg.SearchDirs).
		Int("targets", len(cfg.Targets)).
		Int("tokens", len(cfg.Tokens)).
		Msg("configuration validated")

	return nil
}

// 📍 Location returns the file the configuration was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// #️⃣ Hash returns a stable hash of the effective configuration
func (cfg *Config) Hash() string {
	data, _ := json.Marshal(cfg) // plain strings, slices and bools never fail
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SignatureRule returns the declaration rewrite as a replacement rule
func (cfg *Config) SignatureRule() text.ReplacementRule {
	return text.SignatureRule(cfg.Signature.Pattern, cfg.Signature.Replacement)
}

// TokenRules returns the whole-word identifier rewrites, in order
func (cfg *Config) TokenRules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(cfg.Tokens))
	for _, tok := range cfg.Tokens {
		rules = append(rules, text.WholeWordRule(tok.From, tok.To))
	}
	return rules
}
