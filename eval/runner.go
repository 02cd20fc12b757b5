// Copyright 2025 Poiesic Systems
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


package eval

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// ErrAskerRequired indicates runner construction without an asker.
var ErrAskerRequired = errors.New("asker is required")

// Asker answers a single question end to end.
type Asker interface {
	Ask(ctx context.Context, question string) (Answer, error)
}

// Answer is the answer text plus the listing ids it was grounded on.
type Answer struct {
	Text string
	Ids  []string
}

// Outcome is one question's evaluation record.
type Outcome struct {
	Index    int
	Question string
	Answer   string
	Ids      []string
	Err      error
	Elapsed  time.Duration
}

// Runner evaluates batches of questions concurrently.
type Runner struct {
	asker  Asker
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithConcurrency sets how many questions run at once. Default 1, which
// preserves sequential ordering of backend load.
func WithConcurrency(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			n = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// NewRunner creates a batch evaluation runner.
func NewRunner(asker Asker, opts ...Option) (*Runner, error) {
	if asker == nil {
		return nil, ErrAskerRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		asker:  asker,
		pool:   pool,
		logger: slog.Default().With("component", "eval-runner"),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// Run answers every question and returns outcomes in input order. A failed
// question yields an Outcome with Err set; Run itself fails only when a
// question cannot be scheduled.
func (r *Runner) Run(ctx context.Context, questions []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(questions))

	var wg sync.WaitGroup
	for i, question := range questions {
		i, question := i, question
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()

			start := time.Now()
			answer, askErr := r.asker.Ask(ctx, question)
			outcomes[i] = Outcome{
				Index:    i + 1,
				Question: question,
				Answer:   answer.Text,
				Ids:      answer.Ids,
				Err:      askErr,
				Elapsed:  time.Since(start),
			}
			if askErr != nil {
				r.logger.Warn("question failed", "index", i+1, "err", askErr)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return outcomes, err
		}
	}

	wg.Wait()
	return outcomes, nil
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
