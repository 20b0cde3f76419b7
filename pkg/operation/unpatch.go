package operation

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ThousandsOfTies/home-teacher-core/pkg/instrument"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧹 UnpatchOperation removes every trace of instrumentation from one target
type UnpatchOperation struct {
	opts Options
}

// 🏭 NewUnpatchOperation creates a new unpatch operation
func NewUnpatchOperation(opts Options) (*UnpatchOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Errorf("invalid options: %w", err)
	}
	if len(opts.Blocks) == 0 {
		opts.Blocks = instrument.DefaultBlocks()
	}
	return &UnpatchOperation{opts: opts}, nil
}

func (op *UnpatchOperation) Name() string {
	return "unpatch " + op.opts.Target
}

// 🏃 Execute reads the target, strips injected lines and blocks, and
// writes the restored text back
func (op *UnpatchOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	data, mode, err := readTarget(op.opts.Target)
	if err != nil {
		return errors.Errorf("unpatching %s: %w", op.opts.Target, err)
	}

	unpatcher := instrument.NewUnpatcher(op.opts.Blocks)
	result, err := unpatcher.Apply(ctx, bytes.NewReader(data))
	if err != nil {
		return errors.Errorf("unpatching %s: %w", op.opts.Target, err)
	}

	for _, name := range result.BlocksRemoved {
		op.opts.UserLogger.LogBlockRemoved(name)
	}

	// Postcondition check: removal should leave no injected statements.
	// Residue is reported, not fatal; the file may have been edited by
	// hand between runs.
	if result.Residue > 0 {
		op.opts.UserLogger.LogValidation(false,
			fmt.Sprintf("%d injected statement(s) survived removal", result.Residue), nil)
	}

	if !result.WasModified() {
		logger.Debug().Str("target", op.opts.Target).Msg("nothing to remove")
		op.opts.UserLogger.LogFileChange(op.opts.Target, "unchanged")
		return nil
	}

	if err := writeTarget(op.opts.Target, result.ModifiedContent, mode); err != nil {
		return errors.Errorf("unpatching %s: %w", op.opts.Target, err)
	}

	op.opts.UserLogger.LogFileChange(op.opts.Target,
		fmt.Sprintf("debug logs removed (%d lines)", result.LinesRemoved))
	return nil
}
