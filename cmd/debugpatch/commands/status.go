package commands

import (
	"fmt"

	"github.com/ThousandsOfTies/home-teacher-core/cmd/debugpatch/opts"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/operation"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which rules are currently applied to each target",
		Long: `Status is a read-only pass: it checks each rule's detection marker in
the target and counts injected statements. The target file's own content
is the only state this tool keeps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			opts.UserLogger.Header("instrumentation status")

			for _, target := range opts.Config.Targets {
				report, err := operation.CheckStatus(ctx, target, nil)
				if err != nil {
					return errors.Errorf("checking status: %w", err)
				}

				state := "clean"
				if report.Patched() {
					state = "patched"
				}
				opts.UserLogger.LogFileChange(report.Target,
					fmt.Sprintf("%s, %d injected statement(s)", state, report.InjectedLines))

				rows := pterm.TableData{{"RULE", "MARKER", "APPLIED"}}
				for _, rs := range report.Rules {
					applied := "no"
					if rs.Present {
						applied = "yes"
					}
					rows = append(rows, []string{rs.Rule, rs.Marker, applied})
				}
				if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
					return errors.Errorf("rendering status table: %w", err)
				}
			}

			return nil
		},
	}

	return cmd
}
