// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func TestDo(t *testing.T) {
	permanent := errors.New("permanent")
	tests := []struct {
		name      string
		failures  int
		err       error
		opts      []Option
		wantCalls int
		wantErr   error
	}{
		{name: "first try", failures: 0, wantCalls: 1},
		{name: "recovers", failures: 2, err: errTransient, wantCalls: 3},
		{name: "gives up", failures: 5, err: errTransient, wantCalls: 3, wantErr: errTransient},
		{name: "more attempts", failures: 4, err: errTransient, opts: []Option{WithMaxAttempts(5)}, wantCalls: 5},
		{name: "zero attempts ignored", failures: 5, err: errTransient, opts: []Option{WithMaxAttempts(0)}, wantCalls: 3, wantErr: errTransient},
		{
			name:      "not retryable",
			failures:  5,
			err:       permanent,
			opts:      []Option{WithRetryIf(func(err error) bool { return !errors.Is(err, permanent) })},
			wantCalls: 1,
			wantErr:   permanent,
		},
		{name: "cancellation not retried", failures: 5, err: context.Canceled, wantCalls: 1, wantErr: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			opts := append([]Option{WithBackoff(Fixed(time.Millisecond))}, tt.opts...)
			err := Do(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			}, opts...)
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_StopsWaitingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Do(ctx, func(context.Context) error {
		calls++
		return errTransient
	}, WithBackoff(Fixed(time.Hour)), WithJitter(NoJitter))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestExponential(t *testing.T) {
	b := Exponential(100*time.Millisecond, time.Second)
	assert.Equal(t, 100*time.Millisecond, b(0))
	assert.Equal(t, 200*time.Millisecond, b(1))
	assert.Equal(t, 800*time.Millisecond, b(3))
	assert.Equal(t, time.Second, b(4))
	assert.Equal(t, time.Second, b(80))
}

func TestFullJitter(t *testing.T) {
	assert.Zero(t, FullJitter(0))
	for i := 0; i < 100; i++ {
		d := FullJitter(time.Second)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, time.Second)
	}
}
