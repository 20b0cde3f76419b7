package instrument

import (
	"regexp"
	"strings"
)

// DebugCallName is the name of the diagnostic call this tool works with.
// The patcher only ever inserts calls with this name, and the unpatcher
// removes any line shaped like one, whatever its message argument. Keeping
// the name in one place is what guarantees the two passes stay in agreement.
const DebugCallName = "addDebugLog"

// injectedLineRe matches a whole line holding a single injected call,
// indentation included. Matching is by call shape, never by message text.
var injectedLineRe = regexp.MustCompile(`^[ \t]*` + DebugCallName + `\([^)]*\)[ \t]*\r?$`)

// IsInjectedLine reports whether a single line (without its trailing
// newline) is an injected diagnostic call.
func IsInjectedLine(line string) bool {
	return injectedLineRe.MatchString(line)
}

// CountInjectedLines counts injected diagnostic calls in src.
func CountInjectedLines(src string) int {
	n := 0
	for _, line := range strings.Split(src, "\n") {
		if IsInjectedLine(line) {
			n++
		}
	}
	return n
}

// Position says where a rule's text goes relative to its anchor.
type Position int

const (
	// After inserts the text directly after the anchor match.
	After Position = iota

	// BeforeBodyEnd inserts the text just before the closing brace of the
	// body opened by the anchor. The anchor must include the opening brace.
	BeforeBodyEnd
)

// Rule is a single idempotent insertion.
//
// Marker is the idempotency guard: if it is found anywhere in the source
// the rule is considered already applied and is skipped. Exactly one of
// Anchor (a literal) or AnchorPattern (a compiled regexp) locates the
// insertion point; a missing anchor is a silent no-op, not an error,
// since the target file's phrasing is allowed to drift.
type Rule struct {
	Name          string
	Marker        string
	Anchor        string
	AnchorPattern *regexp.Regexp
	Insert        string
	Position      Position
}

// findAnchor locates the first occurrence of the rule's anchor in src,
// returning the match bounds.
func (r Rule) findAnchor(src string) (start, end int, ok bool) {
	if r.AnchorPattern != nil {
		loc := r.AnchorPattern.FindStringIndex(src)
		if loc == nil {
			return 0, 0, false
		}
		return loc[0], loc[1], true
	}
	idx := strings.Index(src, r.Anchor)
	if idx < 0 {
		return 0, 0, false
	}
	return idx, idx + len(r.Anchor), true
}

// Applied reports whether the rule's detection marker is present in src.
func (r Rule) Applied(src string) bool {
	return strings.Contains(src, r.Marker)
}

// addDebugLogDefRe matches the addDebugLog helper definition in the
// component, a bounded arrow-function body ending in console.log(msg).
var addDebugLogDefRe = regexp.MustCompile(`const addDebugLog = \(msg: string\) => \{[^}]+\n\s+console\.log\(msg\)\n\s+\}`)

// MountHookInsert is the lifecycle-observation block appended after the
// addDebugLog definition. The unpatcher recognizes it by its comment
// marker; see DefaultBlocks.
const MountHookInsert = "\n" +
	"    // マウント確認用\n" +
	"    useEffect(() => {\n" +
	"        addDebugLog('🚀 PDFPane Mounted')\n" +
	"        return () => addDebugLog('💀 PDFPane Unmounted')\n" +
	"    }, [])\n"

// DefaultRules is the fixed, ordered rule table for the PDFPane double-tap
// investigation. Order matters: every anchor must still exist in the
// partially patched text at the time it is searched.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:          "mount-hook",
			Marker:        "🚀 PDFPane Mounted",
			AnchorPattern: addDebugLogDefRe,
			Insert:        MountHookInsert,
			Position:      After,
		},
		{
			Name:     "ref-check",
			Marker:   "🔍 Check: Ref=",
			Anchor:   "addDebugLog(`✅ Valid tap, gap=${timeSinceLastTap}ms`)",
			Insert:   "\n                            addDebugLog(`🔍 Check: Ref=${lastTwoFingerTapTime.current}, Now=${now}`)",
			Position: After,
		},
		{
			Name:     "undo-reset",
			Marker:   "🔄 Undo Reset",
			Anchor:   "addDebugLog('🎉 DOUBLE TAP SUCCESS!')",
			Insert:   "\n                                addDebugLog(`🔄 Undo Reset. Was: ${lastTwoFingerTapTime.current}`)",
			Position: After,
		},
		{
			Name:     "set-ref",
			Marker:   "💾 Set Ref",
			Anchor:   "addDebugLog('📝 First tap recorded')",
			Insert:   "\n                                addDebugLog(`💾 Set Ref. Was: ${lastTwoFingerTapTime.current} -> New: ${now}`)",
			Position: After,
		},
		{
			Name:     "timeout-reset",
			Marker:   "🗑️ Timeout Reset",
			Anchor:   "addDebugLog('⏱️ Timeout - reset')",
			Insert:   "\n                                    addDebugLog(`🗑️ Timeout Reset. Was: ${lastTwoFingerTapTime.current}`)",
			Position: After,
		},
	}
}
