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

// Package operation binds the instrument passes to files on disk. Each
// operation reads its target wholesale, transforms it in memory, and
// writes it back. There is no incremental or streaming mode.
package operation

import (
	"context"
	"io/fs"
	"os"

	"github.com/ThousandsOfTies/home-teacher-core/pkg/instrument"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one run-to-completion pass over a target file
type Operation interface {
	// Name identifies the operation for logging and error wrapping
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Target is the source file to transform
	Target string
	// Rules is the insertion rule table
	Rules []instrument.Rule
	// Blocks is the block removal table
	Blocks []instrument.Block
	// UserLogger provides user-facing feedback
	UserLogger *log.UserLogger
}

// ✅ validate checks the options an operation cannot run without
func (o Options) validate() error {
	if o.Target == "" {
		return errors.Errorf("target is required")
	}
	if o.UserLogger == nil {
		return errors.Errorf("user logger is required")
	}
	return nil
}

// readTarget reads the target file wholesale, keeping its mode so the
// write-back does not change permissions.
func readTarget(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, errors.Errorf("stat target: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Errorf("reading target: %w", err)
	}
	return data, info.Mode().Perm(), nil
}

// writeTarget overwrites the target file wholesale. No backup, no diff
// preview; the file's own content is the only state between runs.
func writeTarget(path string, content string, mode fs.FileMode) error {
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Errorf("writing target: %w", err)
	}
	return nil
}
