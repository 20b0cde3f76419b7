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

package main

import (
	"context"
	"os"

	"github.com/ThousandsOfTies/home-teacher-core/cmd/debugpatch/commands"
	"github.com/ThousandsOfTies/home-teacher-core/cmd/debugpatch/opts"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	userLogger := log.NewUserLogger(ctx)
	rootOpts := &opts.RootOpts{UserLogger: userLogger}

	rootCmd := &cobra.Command{
		Use:   "debugpatch",
		Short: "Reversible debug-log instrumentation for the PDFPane double-tap bug",
		Long: `debugpatch inserts temporary addDebugLog trace statements into the
study PDF pane at known anchor points, and removes every trace of them
again. Patching is idempotent; running it twice changes nothing.`,
	}

	addRootFlags(rootCmd)
	rootCmd.PersistentPreRunE = newPreRun(rootOpts)

	rootCmd.AddCommand(
		commands.NewPatchCmd(rootOpts),
		commands.NewUnpatchCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
