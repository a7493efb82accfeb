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

// Package migrate moves function optimizers from the multi-parameter TryOptimize
// signature to the single FunctionOptimizerContext one.
package migrate

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/files"
	"github.com/walteh/ctxmigrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains the dependencies of a Migrator
type Options struct {
	// Config names the targets, directories and rules
	Config *config.Config
	// Files reads and writes the targets, rooted at Config.BaseDir
	Files files.FileManager
	// Replacer applies the rules, defaults to a RegexpTextReplacer
	Replacer text.TextReplacer
	// Reporter receives the per-file console events
	Reporter Reporter
}

// 🔄 Migrator rewrites the old signature in every target file
type Migrator struct {
	cfg      *config.Config
	files    files.FileManager
	replacer text.TextReplacer
	reporter Reporter

	signature []text.ReplacementRule
	tokens    []text.ReplacementRule
}

// 🏭 New creates a migrator with the given options
func New(opts Options) (*Migrator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Reporter == nil {
		return nil, errors.Errorf("reporter is required")
	}
	if opts.Replacer == nil {
		opts.Replacer = text.NewRegexpTextReplacer()
	}

	m := &Migrator{
		cfg:       opts.Config,
		files:     opts.Files,
		replacer:  opts.Replacer,
		reporter:  opts.Reporter,
		signature: []text.ReplacementRule{opts.Config.SignatureRule()},
		tokens:    opts.Config.TokenRules(),
	}

	if err := m.replacer.ValidateRules(append(append([]text.ReplacementRule{}, m.signature...), m.tokens...)); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	return m, nil
}

// 🔍 Locate finds name under the search directories. The first directory holding it wins.
func (m *Migrator) Locate(ctx context.Context, name string) (string, bool, error) {
	for _, dir := range m.cfg.SearchDirs {
		rel := filepath.Join(dir, name)
		ok, err := m.files.FileExists(ctx, rel)
		if err != nil {
			return "", false, errors.Errorf("checking %s: %w", rel, err)
		}
		if ok {
			return rel, true, nil
		}
	}
	return "", false, nil
}

// 🧪 Inspect reads the file at rel and decides what migrating it would do.
// For OutcomeUpdated the rewritten content is returned, otherwise nil.
func (m *Migrator) Inspect(ctx context.Context, rel string) (Result, []byte, error) {
	res := Result{
		Name: filepath.Base(rel),
		Path: rel,
		Dir:  filepath.Dir(rel),
	}

	content, err := m.files.ReadFile(ctx, rel)
	if err != nil {
		return res, nil, err
	}

	if bytes.Contains(content, []byte(m.cfg.Signature.MigratedMarker)) {
		res.Outcome = OutcomeAlreadyUpdated
		return res, nil, nil
	}

	if !bytes.Contains(content, []byte(m.cfg.Signature.LegacyMarker)) {
		res.Outcome = OutcomeNotApplicable
		return res, nil, nil
	}

	sig, err := m.replacer.ReplaceText(ctx, bytes.NewReader(content), m.signature)
	if err != nil {
		return res, nil, errors.Errorf("replacing signature: %w", err)
	}

	// a drifted declaration is skipped whole, never half rewritten
	if !sig.WasModified {
		zerolog.Ctx(ctx).Debug().Str("file", rel).Msg("legacy marker found but signature pattern did not match")
		res.Outcome = OutcomeNotApplicable
		return res, nil, nil
	}

	tok, err := m.replacer.ReplaceText(ctx, bytes.NewReader(sig.ModifiedContent), m.tokens)
	if err != nil {
		return res, nil, errors.Errorf("replacing tokens: %w", err)
	}

	res.Outcome = OutcomeUpdated
	res.Replacements = sig.ReplacementCount + tok.ReplacementCount
	return res, tok.ModifiedContent, nil
}

// ✏️ UpdateFile migrates the file at rel in place and reports it.
// It returns true only when the file was rewritten.
func (m *Migrator) UpdateFile(ctx context.Context, rel string) (bool, error) {
	res, err := m.updateFile(ctx, rel)
	if err != nil {
		return false, err
	}
	return res.Outcome == OutcomeUpdated, nil
}

func (m *Migrator) updateFile(ctx context.Context, rel string) (Result, error) {
	res, content, err := m.Inspect(ctx, rel)
	if err != nil {
		return res, err
	}

	if res.Outcome != OutcomeUpdated {
		m.reporter.Skipped(ctx, res.Name, res.Outcome)
		return res, nil
	}

	if m.cfg.Backup {
		if err := m.files.BackupFile(ctx, rel); err != nil {
			return res, errors.Errorf("backing up: %w", err)
		}
	}

	if err := m.files.WriteFile(ctx, rel, content); err != nil {
		return res, err
	}

	m.reporter.Updated(ctx, res.Name)
	return res, nil
}

// 🏃 Run migrates every target in order and reports the total.
// The first I/O error stops the run; the summary up to that target is still returned.
func (m *Migrator) Run(ctx context.Context) (*Summary, error) {
	summary, err := m.walk(ctx, true, m.updateFile)
	if err != nil {
		return summary, err
	}
	m.reporter.Total(ctx, summary.Updated)
	return summary, nil
}

// 📋 Plan classifies every target like Run without writing or reporting anything
func (m *Migrator) Plan(ctx context.Context) (*Summary, error) {
	return m.walk(ctx, false, func(ctx context.Context, rel string) (Result, error) {
		res, _, err := m.Inspect(ctx, rel)
		return res, err
	})
}

func (m *Migrator) walk(ctx context.Context, report bool, handle func(context.Context, string) (Result, error)) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	summary := &Summary{}

	for _, name := range m.cfg.Targets {
		if err := ctx.Err(); err != nil {
			return summary, errors.Errorf("run cancelled before %s: %w", name, err)
		}

		if m.ignored(ctx, name) {
			summary.add(Result{Name: name, Outcome: OutcomeIgnored})
			continue
		}

		rel, found, err := m.Locate(ctx, name)
		if err != nil {
			return summary, errors.Errorf("locating %s: %w", name, err)
		}
		if !found {
			if report {
				m.reporter.Missing(ctx, name)
			}
			summary.add(Result{Name: name, Outcome: OutcomeMissing})
			continue
		}

		res, err := handle(ctx, rel)
		if err != nil {
			return summary, errors.Errorf("updating %s: %w", name, err)
		}
		res.Name = name

		logger.Debug().
			Str("file", rel).
			Str("outcome", res.Outcome.String()).
			Int("replacements", res.Replacements).
			Msg("handled target")

		summary.add(res)
	}

	return summary, nil
}

// 🚫 ignored reports whether name matches one of the ignore patterns
func (m *Migrator) ignored(ctx context.Context, name string) bool {
	for _, pattern := range m.cfg.IgnorePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("file", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("file", name).Str("pattern", pattern).Msg("target ignored by pattern")
			return true
		}
	}
	return false
}
