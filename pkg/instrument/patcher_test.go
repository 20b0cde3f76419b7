package instrument

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFixture reads a testdata file as a string
func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestPatcher_AppliesAllRules(t *testing.T) {
	src := loadFixture(t, "pdfpane_canonical.tsx")

	patcher := NewPatcher(DefaultRules())
	result, err := patcher.Apply(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.True(t, result.WasModified())

	assert.Len(t, result.Applied, 5)
	assert.Empty(t, result.AlreadyApplied)
	assert.Empty(t, result.AnchorMissing)

	// Every marker is now present, so a second run has nothing to do.
	for _, rule := range DefaultRules() {
		assert.True(t, rule.Applied(result.ModifiedContent), "marker for %s", rule.Name)
	}

	// Literal-anchor rules insert directly after their anchor.
	for _, rule := range DefaultRules() {
		if rule.Anchor == "" {
			continue
		}
		assert.Contains(t, result.ModifiedContent, rule.Anchor+rule.Insert, "insertion for %s", rule.Name)
	}

	// The lifecycle hook lands right after the addDebugLog definition.
	assert.Contains(t, result.ModifiedContent, "console.log(msg)\n    }"+MountHookInsert)
}

func TestPatcher_Idempotent(t *testing.T) {
	src := loadFixture(t, "pdfpane_canonical.tsx")
	patcher := NewPatcher(DefaultRules())

	first, err := patcher.Apply(context.Background(), strings.NewReader(src))
	require.NoError(t, err)

	second, err := patcher.Apply(context.Background(), strings.NewReader(first.ModifiedContent))
	require.NoError(t, err)

	assert.Equal(t, first.ModifiedContent, second.ModifiedContent)
	assert.False(t, second.WasModified())
	assert.Empty(t, second.Applied)
	assert.Len(t, second.AlreadyApplied, 5)
}

func TestPatcher_SilentSkipOnMissingAnchor(t *testing.T) {
	src := loadFixture(t, "pdfpane_canonical.tsx")
	// Drop the double-tap success line; its rule must skip without error.
	src = strings.ReplaceAll(src, "addDebugLog('🎉 DOUBLE TAP SUCCESS!')", "handleSuccess()")

	patcher := NewPatcher(DefaultRules())
	result, err := patcher.Apply(context.Background(), strings.NewReader(src))
	require.NoError(t, err)

	assert.Contains(t, result.AnchorMissing, "undo-reset")
	assert.Len(t, result.Applied, 4)
	assert.NotContains(t, result.ModifiedContent, "🔄 Undo Reset")
}

func TestPatcher_MarkerGuardWithoutAnchor(t *testing.T) {
	// The marker alone marks a rule as applied, even if the anchor is gone.
	src := "// 🔍 Check: Ref= was here once\nsomethingElse()\n"

	patcher := NewPatcher(DefaultRules())
	result, err := patcher.Apply(context.Background(), strings.NewReader(src))
	require.NoError(t, err)

	assert.Contains(t, result.AlreadyApplied, "ref-check")
	assert.NotContains(t, result.Applied, "ref-check")
}

func TestPatcher_NoRulesApplicable(t *testing.T) {
	src := "const unrelated = () => {\n    return 1\n}\n"

	patcher := NewPatcher(DefaultRules())
	result, err := patcher.Apply(context.Background(), strings.NewReader(src))
	require.NoError(t, err)

	assert.False(t, result.WasModified())
	assert.Equal(t, src, result.ModifiedContent)
	assert.Len(t, result.AnchorMissing, 5)
}

func TestPatcher_BeforeBodyEnd(t *testing.T) {
	rules := []Rule{{
		Name:     "flush-on-exit",
		Marker:   "flush()",
		Anchor:   "const report = () => {",
		Insert:   "\n    flush()\n",
		Position: BeforeBodyEnd,
	}}

	tests := []struct {
		name        string
		src         string
		want        string
		wantApplied bool
	}{
		{
			name:        "nested_braces_in_body",
			src:         "const report = () => {\n    if (ok) { mark() }\n}\ndone()\n",
			want:        "const report = () => {\n    if (ok) { mark() }\n\n    flush()\n}\ndone()\n",
			wantApplied: true,
		},
		{
			name:        "body_never_closes",
			src:         "const report = () => {\n    if (ok) { mark() }\n",
			want:        "const report = () => {\n    if (ok) { mark() }\n",
			wantApplied: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patcher := NewPatcher(rules)
			result, err := patcher.Apply(context.Background(), strings.NewReader(tt.src))
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.ModifiedContent)
			if tt.wantApplied {
				assert.Equal(t, []string{"flush-on-exit"}, result.Applied)
			} else {
				assert.Equal(t, []string{"flush-on-exit"}, result.AnchorMissing)
			}
		})
	}
}

func TestPatcher_ValidTapScenario(t *testing.T) {
	src := "const f = () => { /*body*/ }\n" +
		"                            addDebugLog(`✅ Valid tap, gap=${timeSinceLastTap}ms`)\n"

	patcher := NewPatcher(DefaultRules())
	result, err := patcher.Apply(context.Background(), strings.NewReader(src))
	require.NoError(t, err)

	// The check line appears immediately after the valid-tap call.
	assert.Contains(t, result.ModifiedContent,
		"addDebugLog(`✅ Valid tap, gap=${timeSinceLastTap}ms`)\n"+
			"                            addDebugLog(`🔍 Check: Ref=${lastTwoFingerTapTime.current}, Now=${now}`)")

	// Re-running produces byte-identical output.
	again, err := patcher.Apply(context.Background(), strings.NewReader(result.ModifiedContent))
	require.NoError(t, err)
	assert.Equal(t, result.ModifiedContent, again.ModifiedContent)

	// Unpatch removes both the original and the injected call lines.
	unpatcher := NewUnpatcher(DefaultBlocks())
	restored, err := unpatcher.Apply(context.Background(), strings.NewReader(result.ModifiedContent))
	require.NoError(t, err)
	assert.Equal(t, "const f = () => { /*body*/ }\n", restored.ModifiedContent)
	assert.Equal(t, 2, restored.LinesRemoved)
	assert.Zero(t, restored.Residue)
}
