package commands

import (
	"context"

	"github.com/ThousandsOfTies/home-teacher-core/cmd/debugpatch/opts"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/operation"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewPatchCmd creates a new patch command
func NewPatchCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Insert debug logging at the known anchor points",
		Long: `Patch inserts the addDebugLog trace statements and the mount/unmount
lifecycle hook into each target. Every rule is guarded by a detection
marker, so running patch again changes nothing. A rule whose anchor is
not found is skipped silently.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "patch").Logger().WithContext(ctx)

			opts.UserLogger.Header("inserting debug logs")

			ops, err := buildOps(ctx, opts, func(target string) (operation.Operation, error) {
				return operation.NewPatchOperation(operation.Options{
					Target:     target,
					UserLogger: opts.UserLogger,
				})
			})
			if err != nil {
				return err
			}

			runner := operation.NewRunner(opts.Async)
			if err := runner.Run(ctx, ops...); err != nil {
				return errors.Errorf("patching targets: %w", err)
			}

			opts.UserLogger.LogValidation(true, "Detailed debug logs added successfully", nil)
			return nil
		},
	}

	return cmd
}

// buildOps creates one operation per configured target, skipping targets
// that fail the file filter glob.
func buildOps(ctx context.Context, opts *opts.RootOpts, build func(target string) (operation.Operation, error)) ([]operation.Operation, error) {
	logger := zerolog.Ctx(ctx)

	var ops []operation.Operation
	for _, target := range opts.Config.Targets {
		ok, err := opts.Config.MatchesFilter(target)
		if err != nil {
			return nil, errors.Errorf("filtering targets: %w", err)
		}
		if !ok {
			logger.Debug().Str("target", target).Msg("target does not match file filter, skipping")
			opts.UserLogger.LogFileChange(target, "skipped by file filter")
			continue
		}
		op, err := build(target)
		if err != nil {
			return nil, errors.Errorf("creating operation for %s: %w", target, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}
