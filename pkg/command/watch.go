/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package command

import (
	"context"
	"time"

	"github.com/jpillora/backoff"

	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/log"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

// Watcher repeats an event request and hands every non-empty change set to
// a callback. Failed and unreported requests are retried with exponential
// backoff.
type Watcher struct {
	Poll      func(timeoutMs int) (*srv.EventResp, error)
	TimeoutMs int
	Backoff   *backoff.Backoff
}

// NewWatcher fails for a negative timeout. 0 keeps every request open until
// a change arrives.
func NewWatcher(poll func(timeoutMs int) (*srv.EventResp, error), timeoutMs int) (*Watcher, error) {
	if timeoutMs < 0 {
		return nil, ErrBadTimeout{TimeoutMs: timeoutMs}
	}
	return &Watcher{
		Poll:      poll,
		TimeoutMs: timeoutMs,
		Backoff: &backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    10 * time.Second,
			Factor: 2,
			Jitter: true,
		},
	}, nil
}

// Run blocks until ctx is cancelled
func (w *Watcher) Run(ctx context.Context, handle func(event.ChangeSet)) error {
	if w.TimeoutMs < 0 {
		return ErrBadTimeout{TimeoutMs: w.TimeoutMs}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err := w.Poll(w.TimeoutMs)
		if err == nil && (resp == nil || !resp.Reported) {
			err = ErrNotReported
		}
		if err != nil {
			d := w.Backoff.Duration()
			log.Warning("Event request failed: %s. Retrying in %s", err, d)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
			continue
		}
		w.Backoff.Reset()
		if len(resp.Changes) > 0 {
			handle(resp.Changes)
		}
	}
}
