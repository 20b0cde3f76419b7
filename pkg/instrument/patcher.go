package instrument

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// PatchResult contains the outcome of one patch pass
type PatchResult struct {
	// OriginalContent is the content before insertions
	OriginalContent string

	// ModifiedContent is the content after insertions
	ModifiedContent string

	// Applied lists rules whose text was inserted in this pass
	Applied []string

	// AlreadyApplied lists rules skipped because their marker was present
	AlreadyApplied []string

	// AnchorMissing lists rules skipped because no anchor was found
	AnchorMissing []string
}

// WasModified reports whether the pass changed the content
func (r *PatchResult) WasModified() bool {
	return r.ModifiedContent != r.OriginalContent
}

// Patcher applies an ordered set of insertion rules, each independently
// idempotent. Applying the same patcher twice yields byte-identical output.
type Patcher struct {
	rules []Rule
}

// NewPatcher creates a new Patcher over the given rule table
func NewPatcher(rules []Rule) *Patcher {
	return &Patcher{rules: rules}
}

// Apply runs every rule, in order, against the content. A rule whose
// marker is already present, or whose anchor cannot be found, contributes
// no change; neither case is an error.
func (p *Patcher) Apply(ctx context.Context, content io.Reader) (*PatchResult, error) {
	logger := zerolog.Ctx(ctx)

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &PatchResult{
		OriginalContent: string(data),
		ModifiedContent: string(data),
	}

	for _, rule := range p.rules {
		if rule.Applied(result.ModifiedContent) {
			logger.Debug().Str("rule", rule.Name).Msg("marker already present, skipping")
			result.AlreadyApplied = append(result.AlreadyApplied, rule.Name)
			continue
		}

		_, end, ok := rule.findAnchor(result.ModifiedContent)
		if !ok {
			logger.Debug().Str("rule", rule.Name).Msg("anchor not found, skipping")
			result.AnchorMissing = append(result.AnchorMissing, rule.Name)
			continue
		}

		at, ok := insertionOffset(result.ModifiedContent, rule.Position, end)
		if !ok {
			// BeforeBodyEnd with a body that never closes. Same policy as a
			// missing anchor: no insertion point, no change.
			logger.Debug().Str("rule", rule.Name).Msg("body never closes, skipping")
			result.AnchorMissing = append(result.AnchorMissing, rule.Name)
			continue
		}

		result.ModifiedContent = result.ModifiedContent[:at] + rule.Insert + result.ModifiedContent[at:]
		result.Applied = append(result.Applied, rule.Name)

		logger.Debug().
			Str("rule", rule.Name).
			Int("offset", at).
			Msg("inserted statement")
	}

	return result, nil
}

// insertionOffset resolves the byte offset at which a rule's text goes,
// given the end of its anchor match.
func insertionOffset(src string, pos Position, anchorEnd int) (int, bool) {
	switch pos {
	case BeforeBodyEnd:
		depth := 1
		for i := anchorEnd; i < len(src); i++ {
			switch src[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	default:
		return anchorEnd, true
	}
}
