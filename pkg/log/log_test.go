package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLogger_Console(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(logger *UserLogger)
		wantLogs []string
	}{
		{
			name: "header",
			op: func(logger *UserLogger) {
				logger.Header("inserting debug logs")
			},
			wantLogs: []string{
				"debugpatch • inserting debug logs",
			},
		},
		{
			name: "summary",
			op: func(logger *UserLogger) {
				logger.Summary(3, 2, 0)
			},
			wantLogs: []string{
				"3 applied, 2 skipped, 0 removed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewUserLoggerWithConsole(context.Background(), &buf)
			require.NotNil(t, logger)

			tt.op(logger)

			output := buf.String()
			for _, want := range tt.wantLogs {
				assert.True(t, strings.Contains(output, want), "output %q should contain %q", output, want)
			}
		})
	}
}

func TestUserLogger_RuleChangesDoNotPanic(t *testing.T) {
	logger := NewUserLogger(context.Background())

	for _, changeType := range []RuleChangeType{RuleApplied, RuleAlreadyApplied, RuleAnchorMissing, RuleError} {
		logger.LogRuleChange(RuleChange{Type: changeType, Rule: "ref-check", Description: "test"})
	}
	logger.LogBlockRemoved("mount-hook")
	logger.LogFileChange("src/components/study/PDFPane.tsx", "debug logs added")
	logger.LogValidation(true, "ok", nil)
	logger.LogValidation(false, "warn", nil)
}
