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

package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes operations, sequentially by default. Async mode only
// helps when more than one target is configured; a single file is always
// one synchronous pass.
type Runner struct {
	async bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(async bool) *Runner {
	return &Runner{async: async}
}

// 🏃 Run executes the given operations
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	if r.async && len(ops) > 1 {
		return r.runAsync(ctx, ops)
	}
	return r.runSync(ctx, ops)
}

// 🔄 runSync runs operations one after another
func (r *Runner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("running %s: %w", op.Name(), err)
		}
	}
	return nil
}

// ⚡ runAsync runs operations concurrently, one goroutine per target
func (r *Runner) runAsync(ctx context.Context, ops []Operation) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, op := range ops {
		op := op
		g.Go(func() error {
			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("running %s: %w", op.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
