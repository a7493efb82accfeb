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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(ctx context.Context, logger *Logger)
		wantLogs []string
	}{
		{
			name: "skipped_already_updated",
			op: func(ctx context.Context, logger *Logger) {
				logger.Skipped(ctx, "SumFunctionOptimizer.cs", migrate.OutcomeAlreadyUpdated)
			},
			wantLogs: []string{"Skipping SumFunctionOptimizer.cs - already updated"},
		},
		{
			name: "skipped_no_match",
			op: func(ctx context.Context, logger *Logger) {
				logger.Skipped(ctx, "ZipFunctionOptimizer.cs", migrate.OutcomeNotApplicable)
			},
			wantLogs: []string{"Skipping ZipFunctionOptimizer.cs - no matching signature found"},
		},
		{
			name: "updated",
			op: func(ctx context.Context, logger *Logger) {
				logger.Updated(ctx, "SumFunctionOptimizer.cs")
			},
			wantLogs: []string{"Updated SumFunctionOptimizer.cs"},
		},
		{
			name: "missing",
			op: func(ctx context.Context, logger *Logger) {
				logger.Missing(ctx, "ChunkFunctionOptimizer.cs")
			},
			wantLogs: []string{"Warning: Could not find ChunkFunctionOptimizer.cs"},
		},
		{
			name: "total_after_blank_line",
			op: func(ctx context.Context, logger *Logger) {
				logger.Updated(ctx, "A.cs")
				logger.Total(ctx, 1)
			},
			wantLogs: []string{"Updated A.cs", "", "Total files updated: 1"},
		},
		{
			name: "error",
			op: func(ctx context.Context, logger *Logger) {
				logger.Error(ctx, "migration failed", errors.New("disk full"))
			},
			wantLogs: []string{"Error: migration failed: disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf)
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			tt.op(ctx, logger)

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, lines[i], "log line %d should match", i)
			}
		})
	}
}

func TestLogger_MirrorsToZerolog(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	structured := &bytes.Buffer{}
	ctx := zerolog.New(structured).WithContext(context.Background())

	logger := New(&bytes.Buffer{})
	logger.Missing(ctx, "A.cs")
	logger.Skipped(ctx, "B.cs", migrate.OutcomeAlreadyUpdated)

	out := structured.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"file":"A.cs"`)
	assert.Contains(t, out, `"reason":"already updated"`)
}

func TestRenderPlan(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	summary := &migrate.Summary{
		Results: []migrate.Result{
			{Name: "SumFunctionOptimizer.cs", Dir: "MathOptimizers", Outcome: migrate.OutcomeUpdated, Replacements: 3},
			{Name: "MaxFunctionOptimizer.cs", Dir: "LinqOptimizers", Outcome: migrate.OutcomeAlreadyUpdated},
			{Name: "ChunkFunctionOptimizer.cs", Outcome: migrate.OutcomeMissing},
		},
		Updated: 1,
	}

	buf := &bytes.Buffer{}
	require.NoError(t, New(buf).RenderPlan(context.Background(), summary))

	out := buf.String()
	for _, want := range []string{
		"File", "Directory", "Action",
		"SumFunctionOptimizer.cs", "MathOptimizers", "update",
		"MaxFunctionOptimizer.cs", "skip (already updated)",
		"ChunkFunctionOptimizer.cs", "not found",
		"Files to update: 1",
	} {
		assert.Contains(t, out, want)
	}
}
