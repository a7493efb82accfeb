package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/opts"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a migration would do without writing anything",
		Long: `Plan resolves every target the same way a migration does and prints a table with
the directory each one was found in and the action a migration would take.
No file is modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "plan").Logger().WithContext(cmd.Context())

			m, err := newMigrator(o)
			if err != nil {
				return err
			}

			summary, err := m.Plan(ctx)
			if err != nil {
				return errors.Errorf("planning migration: %w", err)
			}

			return o.Console.RenderPlan(ctx, summary)
		},
	}

	return cmd
}
