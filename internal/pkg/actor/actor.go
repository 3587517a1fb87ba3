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

package actor

import (
	"context"
	"sync"

	"github.com/go-arcade/gatekeeper/pkg/safe"
)

// Job is a unit of work executed by a keyed actor.
type Job func() error

type envelope struct {
	job  Job
	done chan error
}

// keyedActor runs every job for one key on a single goroutine, in arrival order.
type keyedActor struct {
	key      string
	mailbox  chan envelope
	shutdown chan struct{}
	exited   chan struct{}
	wg       sync.WaitGroup
}

func newKeyedActor(key string, mailbox int) *keyedActor {
	a := &keyedActor{
		key:      key,
		mailbox:  make(chan envelope, mailbox),
		shutdown: make(chan struct{}),
		exited:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.loop()
	return a
}

// send enqueues env unless the actor is shutting down. A job that slips in
// after the final drain is dropped; ask notices through exited.
func (a *keyedActor) send(ctx context.Context, env envelope) error {
	select {
	case <-a.shutdown:
		return ErrStopped
	default:
	}
	select {
	case a.mailbox <- env:
		return nil
	case <-a.shutdown:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *keyedActor) ask(ctx context.Context, job Job) error {
	done := make(chan error, 1)
	if err := a.send(ctx, envelope{job: job, done: done}); err != nil {
		return err
	}
	return a.await(ctx, done)
}

// await waits for the job's result. done is written before the loop exits,
// so an empty done after exit means the job never ran.
func (a *keyedActor) await(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-a.exited:
		select {
		case err := <-done:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *keyedActor) loop() {
	defer a.wg.Done()
	defer close(a.exited)
	for {
		select {
		case env := <-a.mailbox:
			a.run(env)
		case <-a.shutdown:
			// 处理已入队的任务后退出
			for {
				select {
				case env := <-a.mailbox:
					a.run(env)
				default:
					return
				}
			}
		}
	}
}

func (a *keyedActor) run(env envelope) {
	err := safe.Try(env.job)
	if env.done != nil {
		env.done <- err
	}
}

func (a *keyedActor) stop() {
	close(a.shutdown)
	a.wg.Wait()
}
