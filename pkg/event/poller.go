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

package event

import (
	"math"
	"sync"
	"time"

	"jinr.ru/greenlab/go-pim/pkg/log"
)

const DefaultGranularity = time.Second

// Source is one kind of interrupt the poller watches
type Source interface {
	// Arm is called once at the start of every poll
	Arm() error
	// Sweep reads pending interrupts, acknowledges them and classifies
	// each one against the current presence
	Sweep() (ChangeSet, error)
}

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

type PollState int

const (
	Idle PollState = iota
	Polling
	Reporting
	TimedOut
	Aborted
)

func (s PollState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Reporting:
		return "reporting"
	case TimedOut:
		return "timed-out"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

func (s PollState) terminal() bool {
	return s == Reporting || s == TimedOut || s == Aborted
}

type Option func(p *Poller)

func WithClock(c Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithGranularity sets the sleep between empty sweeps. Non-positive values are ignored.
func WithGranularity(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.granularity = d
		}
	}
}

// Poller serializes its polls. Concurrent callers queue.
type Poller struct {
	mu          sync.Mutex
	name        string
	source      Source
	clock       Clock
	granularity time.Duration
}

func NewPoller(name string, source Source, opts ...Option) *Poller {
	p := &Poller{
		name:        name,
		source:      source,
		clock:       realClock{},
		granularity: DefaultGranularity,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Name() string {
	return p.name
}

// poll holds the state of one Poll call
type poll struct {
	state     PollState
	timeoutMs int
	forever   bool
	end       time.Time
	changes   ChangeSet
	err       error
}

// Poll waits for presence changes. timeoutMs 0 waits forever, a positive
// value bounds the wait, a negative value returns (false, {}) immediately.
// An expired wait reports (true, {}). A register failure ends the poll with
// the error.
func (p *Poller) Poll(timeoutMs int) (bool, ChangeSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run := &poll{state: Idle, timeoutMs: timeoutMs}
	for !run.state.terminal() {
		next := p.step(run)
		log.Debug("Poller %s: %s -> %s", p.name, run.state, next)
		run.state = next
	}

	switch run.state {
	case Reporting:
		if run.changes == nil {
			run.changes = ChangeSet{}
		}
		return true, run.changes, nil
	case TimedOut:
		return true, ChangeSet{}, nil
	default:
		return false, ChangeSet{}, run.err
	}
}

// step is the only place where the poll state changes
func (p *Poller) step(run *poll) PollState {
	switch run.state {
	case Idle:
		return p.start(run)
	case Polling:
		return p.sweep(run)
	}
	return run.state
}

func (p *Poller) start(run *poll) PollState {
	switch {
	case run.timeoutMs < 0:
		log.Error("%s", ErrInvalidTimeout{TimeoutMs: run.timeoutMs, Reason: "negative"})
		return Aborted
	case run.timeoutMs == 0:
		run.forever = true
	default:
		if int64(run.timeoutMs) > math.MaxInt64/int64(time.Millisecond) {
			log.Error("%s", ErrInvalidTimeout{TimeoutMs: run.timeoutMs, Reason: "time wrap"})
			return Aborted
		}
		start := p.clock.Now()
		run.end = start.Add(time.Duration(run.timeoutMs) * time.Millisecond)
		if run.end.Before(start) {
			log.Error("%s", ErrInvalidTimeout{TimeoutMs: run.timeoutMs, Reason: "time wrap"})
			return Aborted
		}
	}
	if err := p.source.Arm(); err != nil {
		run.err = err
		return Aborted
	}
	return Polling
}

func (p *Poller) sweep(run *poll) PollState {
	changes, err := p.source.Sweep()
	if err != nil {
		log.Error("Poller %s: sweep failed: %s", p.name, err)
		run.err = err
		return Aborted
	}
	if len(changes) > 0 {
		run.changes = changes
		return Reporting
	}
	if run.forever {
		p.clock.Sleep(p.granularity)
		return Polling
	}
	remaining := run.end.Sub(p.clock.Now())
	switch {
	case remaining >= p.granularity:
		p.clock.Sleep(p.granularity)
		return Polling
	case remaining > 0:
		p.clock.Sleep(remaining)
		return Reporting
	default:
		return TimedOut
	}
}
