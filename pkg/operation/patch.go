package operation

import (
	"bytes"
	"context"

	"github.com/ThousandsOfTies/home-teacher-core/pkg/instrument"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/log"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💉 PatchOperation injects the diagnostic statements into one target file
type PatchOperation struct {
	opts Options
}

// 🏭 NewPatchOperation creates a new patch operation
func NewPatchOperation(opts Options) (*PatchOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Errorf("invalid options: %w", err)
	}
	if len(opts.Rules) == 0 {
		opts.Rules = instrument.DefaultRules()
	}
	return &PatchOperation{opts: opts}, nil
}

func (op *PatchOperation) Name() string {
	return "patch " + op.opts.Target
}

// 🏃 Execute reads the target, applies every rule once, and writes it back
func (op *PatchOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	data, mode, err := readTarget(op.opts.Target)
	if err != nil {
		return errors.Errorf("patching %s: %w", op.opts.Target, err)
	}

	patcher := instrument.NewPatcher(op.opts.Rules)
	result, err := patcher.Apply(ctx, bytes.NewReader(data))
	if err != nil {
		return errors.Errorf("patching %s: %w", op.opts.Target, err)
	}

	for _, name := range result.Applied {
		op.opts.UserLogger.LogRuleChange(log.RuleChange{Type: log.RuleApplied, Rule: name})
	}
	for _, name := range result.AlreadyApplied {
		op.opts.UserLogger.LogRuleChange(log.RuleChange{Type: log.RuleAlreadyApplied, Rule: name})
	}
	for _, name := range result.AnchorMissing {
		op.opts.UserLogger.LogRuleChange(log.RuleChange{
			Type:        log.RuleAnchorMissing,
			Rule:        name,
			Description: "target phrasing may have drifted",
		})
	}

	if !result.WasModified() {
		logger.Debug().Str("target", op.opts.Target).Msg("nothing to insert")
		op.opts.UserLogger.LogFileChange(op.opts.Target, "unchanged")
		return nil
	}

	if err := writeTarget(op.opts.Target, result.ModifiedContent, mode); err != nil {
		return errors.Errorf("patching %s: %w", op.opts.Target, err)
	}

	op.opts.UserLogger.LogFileChange(op.opts.Target, "debug logs added")
	return nil
}
