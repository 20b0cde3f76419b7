// Copyright 2026 ThousandsOfTies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about instrumentation runs
type UserLogger struct {
	log     zerolog.Logger // for debug/error logging
	console io.Writer
}

// 🎨 RuleChangeType represents what happened to one insertion rule
type RuleChangeType int

const (
	RuleApplied RuleChangeType = iota
	RuleAlreadyApplied
	RuleAnchorMissing
	RuleError
)

// 🖼️ RuleChange represents the outcome of one rule during a patch run
type RuleChange struct {
	Type        RuleChangeType
	Rule        string
	Description string
	Err         error
}

// 🎯 NewUserLogger creates a new user logger writing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerWithConsole(ctx, os.Stdout)
}

// 🏭 NewUserLoggerWithConsole creates a user logger with an explicit
// console writer
func NewUserLoggerWithConsole(ctx context.Context, console io.Writer) *UserLogger {
	return &UserLogger{
		log:     *zerolog.Ctx(ctx),
		console: console,
	}
}

// 📝 LogRuleChange logs a rule outcome with appropriate emoji and formatting
func (u *UserLogger) LogRuleChange(change RuleChange) {
	var prefix, action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case RuleApplied:
		prefix = "✨"
		action = "Inserted"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: prefix})
	case RuleAlreadyApplied:
		prefix = "⏭️"
		action = "Already applied"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: prefix})
	case RuleAnchorMissing:
		prefix = "🔍"
		action = "Anchor missing"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: prefix})
	case RuleError:
		prefix = "❌"
		action = "Error"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: prefix})
	}

	msg := fmt.Sprintf("%s %s", action, change.Rule)
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	if change.Err != nil {
		printer.Println(msg)
		pterm.Error.Println(change.Err)
		u.log.Error().Err(change.Err).Msg(msg) // Also log to zerolog for debugging
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg) // Also log to zerolog for debugging
	}
}

// 🗑️ LogBlockRemoved logs the removal of an instrumentation block
func (u *UserLogger) LogBlockRemoved(name string) {
	pterm.Success.WithPrefix(pterm.Prefix{Text: "🗑️"}).Printf("Removed %s block\n", name)
	u.log.Info().Str("block", name).Msg("removed instrumentation block")
}

// 📊 LogFileChange logs a change to a target file
func (u *UserLogger) LogFileChange(path string, description string) {
	relPath := filepath.Base(path)
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Printf("%s: %s\n", relPath, description)
	u.log.Info().Str("path", path).Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	} else {
		if err != nil {
			pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
			pterm.Error.Println(err)
			u.log.Error().Err(err).Msg(description)
		} else {
			pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
			u.log.Warn().Msg(description)
		}
	}
}

// 📝 Header prints the tool banner before a run
func (u *UserLogger) Header(msg string) {
	name := color.New(color.Bold, color.FgCyan).Sprint("debugpatch")
	fmt.Fprintf(u.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	u.log.Info().Msg(msg)
}

// 📝 Summary prints counts at the end of a run
func (u *UserLogger) Summary(applied, skipped, removed int) {
	fmt.Fprintf(u.console, "%s applied, %s skipped, %s removed\n",
		color.New(color.FgGreen).Sprintf("%d", applied),
		color.New(color.FgYellow).Sprintf("%d", skipped),
		color.New(color.FgRed).Sprintf("%d", removed))
	u.log.Info().
		Int("applied", applied).
		Int("skipped", skipped).
		Int("removed", removed).
		Msg("run summary")
}
