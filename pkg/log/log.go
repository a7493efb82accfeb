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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"gitlab.com/tozd/go/errors"
)

var _ migrate.Reporter = (*Logger)(nil)

// 🎯 Logger writes the per-file console lines and mirrors them to zerolog
type Logger struct {
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger writing to console
func New(console io.Writer) *Logger {
	return &Logger{
		console: console,
	}
}

func (l *Logger) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, line)
}

// ⏭️ Skipped prints "Skipping <name> - <reason>"
func (l *Logger) Skipped(ctx context.Context, name string, outcome migrate.Outcome) {
	l.println(fmt.Sprintf("%s %s - %s", color.New(color.FgYellow).Sprint("Skipping"), name, outcome))
	zerolog.Ctx(ctx).Info().
		Str("file", name).
		Str("reason", outcome.String()).
		Msg("skipped file")
}

// 🔄 Updated prints "Updated <name>"
func (l *Logger) Updated(ctx context.Context, name string) {
	l.println(fmt.Sprintf("%s %s", color.New(color.FgGreen).Sprint("Updated"), name))
	zerolog.Ctx(ctx).Info().
		Str("file", name).
		Msg("updated file")
}

// ⚠️ Missing prints "Warning: Could not find <name>"
func (l *Logger) Missing(ctx context.Context, name string) {
	l.println(fmt.Sprintf("%s Could not find %s", color.New(color.FgRed).Sprint("Warning:"), name))
	zerolog.Ctx(ctx).Warn().
		Str("file", name).
		Msg("file not found in any search directory")
}

// 📊 Total prints a blank line and "Total files updated: <n>"
func (l *Logger) Total(ctx context.Context, updated int) {
	l.println("")
	l.println(fmt.Sprintf("Total files updated: %s", color.New(color.Bold).Sprint(updated)))
	zerolog.Ctx(ctx).Info().
		Int("updated", updated).
		Msg("migration complete")
}

// ❌ Error prints an error that stopped the run
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.println(fmt.Sprintf("%s %s: %v", color.New(color.FgRed).Sprint("Error:"), msg, err))
	zerolog.Ctx(ctx).Error().Err(err).Msg(msg)
}

// 📋 RenderPlan prints a table of what a run would do to each target
func (l *Logger) RenderPlan(ctx context.Context, summary *migrate.Summary) error {
	data := pterm.TableData{{"File", "Directory", "Action", "Replacements"}}
	for _, res := range summary.Results {
		dir := res.Dir
		if dir == "" {
			dir = "-"
		}
		data = append(data, []string{
			res.Name,
			dir,
			planAction(res.Outcome),
			fmt.Sprintf("%d", res.Replacements),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering plan: %w", err)
	}

	l.println(table)
	l.println("")
	l.println(fmt.Sprintf("Files to update: %d", summary.Updated))

	zerolog.Ctx(ctx).Debug().
		Int("targets", len(summary.Results)).
		Int("to_update", summary.Updated).
		Msg("rendered plan")
	return nil
}

func planAction(outcome migrate.Outcome) string {
	switch outcome {
	case migrate.OutcomeUpdated:
		return "update"
	case migrate.OutcomeAlreadyUpdated:
		return "skip (already updated)"
	case migrate.OutcomeNotApplicable:
		return "skip (no matching signature)"
	case migrate.OutcomeIgnored:
		return "skip (ignored)"
	case migrate.OutcomeMissing:
		return "not found"
	default:
		return outcome.String()
	}
}
