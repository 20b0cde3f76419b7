package instrument

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Block describes one multi-line structural insertion the unpatcher knows
// how to remove. Pattern is the primary single-shot removal; when Residual
// is still present afterwards (formatting drift broke the pattern) and
// ScanMarkers is set, the brace-balance line scan takes over.
type Block struct {
	Name        string
	Pattern     *regexp.Regexp
	Residual    string
	ScanMarkers []string
}

// mountHookRe removes the lifecycle hook inserted by the mount-hook rule.
// Non-greedy so it stops at the hook's own dependency-array closer.
var mountHookRe = regexp.MustCompile(`(?s)\n[ \t]*// マウント確認用\n[ \t]*useEffect\(\(\) => \{.*?\n[ \t]*\}, \[\]\)\n`)

// logDisplayRe removes the on-screen debug log region rendered at the
// bottom of the component.
var logDisplayRe = regexp.MustCompile(`(?s)\s*\{/\* Debug Log Display \(iPad用\) \*/\}.*?\{debugLogs\.map\(\(log, i\) => \(.*?\n\s*\)\)\}\s*</div>\s*\)\}\s*\n`)

// DefaultBlocks lists the structural insertions made while chasing the
// double-tap bug: the mount/unmount hook and the log display region.
func DefaultBlocks() []Block {
	return []Block{
		{
			Name:     "mount-hook",
			Pattern:  mountHookRe,
			Residual: "マウント確認用",
		},
		{
			Name:        "log-display",
			Pattern:     logDisplayRe,
			Residual:    "debugLogs.length",
			ScanMarkers: []string{"Debug Log Display", "debugLogs.length"},
		},
	}
}

// UnpatchResult contains the outcome of one unpatch pass
type UnpatchResult struct {
	// OriginalContent is the content before removal
	OriginalContent string

	// ModifiedContent is the content after removal
	ModifiedContent string

	// LinesRemoved counts injected statement lines dropped by the line pass
	LinesRemoved int

	// BlocksRemoved lists block names removed by either pattern or scan
	BlocksRemoved []string

	// Residue counts injected statement lines still present afterwards.
	// Nonzero residue means some insertion survived both passes.
	Residue int
}

// WasModified reports whether the pass changed the content
func (r *UnpatchResult) WasModified() bool {
	return r.ModifiedContent != r.OriginalContent
}

// Unpatcher removes every trace of prior instrumentation: a line pass for
// injected statements, then a block pass for structural insertions.
type Unpatcher struct {
	blocks []Block
}

// NewUnpatcher creates a new Unpatcher over the given block table
func NewUnpatcher(blocks []Block) *Unpatcher {
	return &Unpatcher{blocks: blocks}
}

// Apply removes all injected statements and instrumentation blocks from
// the content. An unbalanced block (braces never returning to baseline
// before end of input) fails loudly and leaves the content untouched
// rather than truncating trailing text.
func (u *Unpatcher) Apply(ctx context.Context, content io.Reader) (*UnpatchResult, error) {
	logger := zerolog.Ctx(ctx)

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &UnpatchResult{
		OriginalContent: string(data),
	}

	// Pass 1: drop every line shaped like an injected call.
	out, removed := removeInjectedLines(string(data))
	result.LinesRemoved = removed

	// Pass 2: remove structural blocks.
	for _, block := range u.blocks {
		if block.Pattern != nil && block.Pattern.MatchString(out) {
			out = block.Pattern.ReplaceAllString(out, "")
			result.BlocksRemoved = append(result.BlocksRemoved, block.Name)
			logger.Debug().Str("block", block.Name).Msg("removed block by pattern")
		}

		// Structural fallback: the residual marker surviving the pattern
		// means formatting drift broke the single-shot match.
		if block.Residual == "" || !strings.Contains(out, block.Residual) {
			continue
		}
		if len(block.ScanMarkers) == 0 {
			logger.Warn().Str("block", block.Name).Msg("residual marker present and no scan fallback defined")
			continue
		}
		scanned, hit, err := removeBlockByScan(out, block.ScanMarkers)
		if err != nil {
			return nil, errors.Errorf("removing %s block: %w", block.Name, err)
		}
		if hit {
			out = scanned
			result.BlocksRemoved = append(result.BlocksRemoved, block.Name)
			logger.Debug().Str("block", block.Name).Msg("removed block by brace scan")
		}
	}

	result.ModifiedContent = out
	result.Residue = CountInjectedLines(out)
	if result.Residue > 0 {
		logger.Warn().Int("residue", result.Residue).Msg("injected statements survived removal")
	}

	return result, nil
}

// removeInjectedLines drops whole lines matching the injected call shape,
// indentation and all, and reports how many were dropped.
func removeInjectedLines(src string) (string, int) {
	lines := strings.Split(src, "\n")
	kept := lines[:0]
	removed := 0
	for _, line := range lines {
		if IsInjectedLine(line) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), removed
}

// removeBlockByScan removes text from a marker line through the line where
// the running brace count returns to the pre-block baseline. Marker lines
// reset the depth counter, so a block announced by two stacked marker lines
// is still consumed whole.
func removeBlockByScan(src string, markers []string) (string, bool, error) {
	lines := strings.Split(src, "\n")
	kept := make([]string, 0, len(lines))
	depth := 0
	hit := false

	for _, line := range lines {
		if containsAny(line, markers) {
			depth = 1
			hit = true
			continue
		}
		if depth > 0 {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 {
				depth = 0
			}
			continue
		}
		kept = append(kept, line)
	}

	if depth > 0 {
		return src, false, errors.Errorf("block %q still open at end of input", markers[0])
	}
	return strings.Join(kept, "\n"), hit, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
