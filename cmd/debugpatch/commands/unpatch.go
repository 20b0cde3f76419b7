package commands

import (
	"github.com/ThousandsOfTies/home-teacher-core/cmd/debugpatch/opts"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/operation"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewUnpatchCmd creates a new unpatch command
func NewUnpatchCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpatch",
		Short: "Remove every injected debug statement and block",
		Long: `Unpatch drops every line shaped like an addDebugLog call, whatever its
message, then removes the lifecycle hook and the on-screen log display
block. Block removal is nesting-aware: a brace-balance scan consumes the
whole block even when its body nests further braces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "unpatch").Logger().WithContext(ctx)

			opts.UserLogger.Header("removing debug logs")

			ops, err := buildOps(ctx, opts, func(target string) (operation.Operation, error) {
				return operation.NewUnpatchOperation(operation.Options{
					Target:     target,
					UserLogger: opts.UserLogger,
				})
			})
			if err != nil {
				return err
			}

			runner := operation.NewRunner(opts.Async)
			if err := runner.Run(ctx, ops...); err != nil {
				return errors.Errorf("unpatching targets: %w", err)
			}

			opts.UserLogger.LogValidation(true, "Debug logs removed successfully", nil)
			return nil
		},
	}

	return cmd
}
