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

//go:generate go run go.uber.org/mock/mockgen -destination mock_event_test.go -package event -write_package_comment=false jinr.ru/greenlab/go-pim/pkg/event Source,Clock

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func TestPollNegativeTimeoutDoesNoIO(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	clock := NewMockClock(ctrl)

	p := NewPoller("port", src, WithClock(clock))
	ok, changes, err := p.Poll(-1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, changes)
	assert.NotNil(t, changes)
}

func TestPollTimeWrap(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)

	p := NewPoller("port", src, WithClock(newFakeClock()))
	ok, changes, err := p.Poll(math.MaxInt64)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, changes)
}

func TestPollShortRemainderReportsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	clock := newFakeClock()
	gomock.InOrder(
		src.EXPECT().Arm().Return(nil),
		src.EXPECT().Sweep().Return(ChangeSet{}, nil).Times(2),
	)

	p := NewPoller("port", src, WithClock(clock))
	ok, changes, err := p.Poll(1500)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, changes)
	assert.Equal(t, []time.Duration{time.Second, 500 * time.Millisecond}, clock.sleeps)
}

func TestPollExactTimeoutTimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	clock := newFakeClock()
	src.EXPECT().Arm().Return(nil)
	src.EXPECT().Sweep().Return(nil, nil).Times(3)

	p := NewPoller("port", src, WithClock(clock))
	ok, changes, err := p.Poll(2000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, changes)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.sleeps)
}

func TestPollReportsChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	clock := newFakeClock()
	gomock.InOrder(
		src.EXPECT().Arm().Return(nil),
		src.EXPECT().Sweep().Return(ChangeSet{}, nil),
		src.EXPECT().Sweep().Return(ChangeSet{5: Inserted, 17: Removed}, nil),
	)

	p := NewPoller("port", src, WithClock(clock))
	ok, changes, err := p.Poll(10000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ChangeSet{5: Inserted, 17: Removed}, changes)
	assert.Equal(t, []time.Duration{time.Second}, clock.sleeps)
}

func TestPollForever(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	clock := newFakeClock()
	gomock.InOrder(
		src.EXPECT().Arm().Return(nil),
		src.EXPECT().Sweep().Return(ChangeSet{}, nil).Times(3),
		src.EXPECT().Sweep().Return(ChangeSet{2: Inserted}, nil),
	)

	p := NewPoller("module", src, WithClock(clock), WithGranularity(250*time.Millisecond))
	ok, changes, err := p.Poll(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ChangeSet{2: Inserted}, changes)
	assert.Equal(t, []time.Duration{
		250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond,
	}, clock.sleeps)
}

func TestPollSweepErrorEndsPoll(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	cause := errors.New("bus error")
	src.EXPECT().Arm().Return(nil)
	src.EXPECT().Sweep().Return(nil, cause)

	p := NewPoller("port", src, WithClock(newFakeClock()))
	ok, changes, err := p.Poll(0)
	require.ErrorIs(t, err, cause)
	assert.False(t, ok)
	assert.Empty(t, changes)
}

func TestPollArmError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	cause := errors.New("bus error")
	src.EXPECT().Arm().Return(cause)

	p := NewPoller("module", src, WithClock(newFakeClock()))
	ok, _, err := p.Poll(100)
	require.ErrorIs(t, err, cause)
	assert.False(t, ok)
}

func TestWithGranularityIgnoresNonPositive(t *testing.T) {
	p := NewPoller("port", nil, WithGranularity(0), WithGranularity(-time.Second))
	assert.Equal(t, DefaultGranularity, p.granularity)
}

func TestChangeSetJSON(t *testing.T) {
	data, err := json.Marshal(ChangeSet{5: Inserted, 2: Removed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"2":"0","5":"1"}`, string(data))

	var back ChangeSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ChangeSet{5: Inserted, 2: Removed}, back)

	err = json.Unmarshal([]byte(`{"1":"x"}`), &back)
	assert.Error(t, err)
}

func TestChangeSetString(t *testing.T) {
	assert.Equal(t, "{2:removed 5:inserted}", ChangeSet{5: Inserted, 2: Removed}.String())
	assert.Equal(t, []int{2, 5}, ChangeSet{5: Inserted, 2: Removed}.Indices())
}
