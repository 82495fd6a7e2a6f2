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
	"errors"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

func TestWatcherRetries(t *testing.T) {
	calls := 0
	poll := func(timeoutMs int) (*srv.EventResp, error) {
		calls++
		assert.Equal(t, 250, timeoutMs)
		switch calls {
		case 1, 2:
			return nil, errors.New("connection refused")
		case 3:
			return &srv.EventResp{Reported: true, Changes: event.ChangeSet{}}, nil
		default:
			return &srv.EventResp{Reported: true, Changes: event.ChangeSet{9: event.Removed}}, nil
		}
	}
	w, err := NewWatcher(poll, 250)
	require.NoError(t, err)
	w.Backoff = &backoff.Backoff{Min: time.Millisecond, Max: 2 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	var got []event.ChangeSet
	err = w.Run(ctx, func(changes event.ChangeSet) {
		got = append(got, changes)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []event.ChangeSet{{9: event.Removed}}, got)
}

func TestWatcherCancelledWhileBackingOff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	poll := func(int) (*srv.EventResp, error) {
		cancel()
		return nil, errors.New("connection refused")
	}
	w, err := NewWatcher(poll, 0)
	require.NoError(t, err)
	w.Backoff = &backoff.Backoff{Min: time.Hour, Max: time.Hour}

	err = w.Run(ctx, func(event.ChangeSet) {})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWatcherRejectsNegativeTimeout(t *testing.T) {
	calls := 0
	poll := func(int) (*srv.EventResp, error) {
		calls++
		return &srv.EventResp{Reported: false, Changes: event.ChangeSet{}}, nil
	}
	_, err := NewWatcher(poll, -1)
	var bad ErrBadTimeout
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, -1, bad.TimeoutMs)

	w := &Watcher{Poll: poll, TimeoutMs: -1, Backoff: &backoff.Backoff{}}
	err = w.Run(context.Background(), func(event.ChangeSet) {})
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 0, calls)
}

func TestWatcherBacksOffWhenNotReported(t *testing.T) {
	calls := 0
	poll := func(int) (*srv.EventResp, error) {
		calls++
		return &srv.EventResp{Reported: false, Changes: event.ChangeSet{}}, nil
	}
	w, err := NewWatcher(poll, 100)
	require.NoError(t, err)
	w.Backoff = &backoff.Backoff{Min: 20 * time.Millisecond, Max: 20 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = w.Run(ctx, func(event.ChangeSet) {
		t.Error("unreported poll must not reach the handler")
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 6)
}
