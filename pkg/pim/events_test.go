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

package pim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/gateway"
	"jinr.ru/greenlab/go-pim/pkg/layout"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time        { return c.now }
func (c *stepClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func TestPortSweepClassifiesAndClears(t *testing.T) {
	d, sim := newTestDevice(t)
	intr := reg(t, 1, fpga.DomQsfpPresentIntr)
	sim.Set(intr, 0xffff0006)
	sim.SetW1C(intr, fpga.QsfpPortMask)
	sim.Set(reg(t, 1, fpga.DomQsfpPresent), 0x0002)

	changes, err := d.PortEvents().Sweep()
	require.NoError(t, err)
	assert.Equal(t, event.ChangeSet{17: event.Inserted, 18: event.Removed}, changes)

	writes := sim.Writes()
	require.Len(t, writes, 2*fpga.MaxModules+1)
	for m := 0; m < fpga.MaxModules; m++ {
		assert.Equal(t, gateway.Access{Offset: reg(t, m, fpga.DomQsfpPresentIntrMask), Value: 0xffff0000}, writes[2*m])
		assert.Equal(t, gateway.Access{Offset: reg(t, m, fpga.DomQsfpIntrMask), Value: 0xffff0000}, writes[2*m+1])
	}
	assert.Equal(t, gateway.Access{Offset: intr, Value: 0xffff0006}, writes[len(writes)-1])
	assert.Equal(t, uint32(0xffff0000), sim.Get(intr))

	changes, err = d.PortEvents().Sweep()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestPortSweepIgnoresPortsOutsideLayout(t *testing.T) {
	l, err := layout.New(20, 16, 10)
	require.NoError(t, err)
	sim := gateway.NewSim()
	d := NewDevice(sim, l)
	sim.Set(reg(t, 1, fpga.DomQsfpPresentIntr), 0x0031)
	sim.Set(reg(t, 1, fpga.DomQsfpPresent), 0x0011)

	changes, err := d.PortEvents().Sweep()
	require.NoError(t, err)
	assert.Equal(t, event.ChangeSet{16: event.Inserted}, changes)
}

func TestPortSweepReadError(t *testing.T) {
	d, sim := newTestDevice(t)
	cause := errors.New("bus error")
	sim.FailOn(reg(t, 3, fpga.DomQsfpPresentIntr), cause)

	_, err := d.PortEvents().Sweep()
	require.ErrorIs(t, err, cause)
}

func TestPortSweepReadErrorKeepsEarlierLatches(t *testing.T) {
	d, sim := newTestDevice(t)
	intr := reg(t, 1, fpga.DomQsfpPresentIntr)
	sim.Set(intr, 0x4)
	sim.SetW1C(intr, fpga.QsfpPortMask)
	sim.Set(reg(t, 1, fpga.DomQsfpPresent), 0x4)
	sim.FailOn(reg(t, 3, fpga.DomQsfpPresentIntr), errors.New("bus error"))

	changes, err := d.PortEvents().Sweep()
	require.Error(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, uint32(0x4), sim.Get(intr))

	sim.FailOn(reg(t, 3, fpga.DomQsfpPresentIntr), nil)
	changes, err = d.PortEvents().Sweep()
	require.NoError(t, err)
	assert.Equal(t, event.ChangeSet{18: event.Inserted}, changes)
	assert.Equal(t, uint32(0), sim.Get(intr))
}

func TestModuleArmWritesMask(t *testing.T) {
	d, sim := newTestDevice(t)
	require.NoError(t, d.ModuleEvents().Arm())
	assert.Equal(t, []gateway.Access{
		{Offset: fpga.IobReg(fpga.IobPimPresentIntrMask), Value: 0xfff00000},
	}, sim.Writes())
}

func TestModuleSweepClassifiesAndClears(t *testing.T) {
	d, sim := newTestDevice(t)
	status := fpga.IobReg(fpga.IobPimStatus)
	sim.Set(status, 0x00050003)
	sim.SetW1C(status, fpga.PimChangeMask)
	sim.Set(fpga.IobReg(fpga.IobInterruptStatus), 0x1)

	changes, err := d.ModuleEvents().Sweep()
	require.NoError(t, err)
	assert.Equal(t, event.ChangeSet{0: event.Inserted, 1: event.Removed}, changes)
	assert.Equal(t, []gateway.Access{{Offset: status, Value: 0x00050003}}, sim.Writes())
	assert.Equal(t, uint32(0x00050000), sim.Get(status))

	changes, err = d.ModuleEvents().Sweep()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestPollerOverPortSource(t *testing.T) {
	d, sim := newTestDevice(t)
	clock := &stepClock{now: time.Unix(0, 0)}
	p := event.NewPoller("port", d.PortEvents(), event.WithClock(clock))

	ok, changes, err := p.Poll(1500)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, changes)
	assert.Equal(t, time.Unix(0, 0).Add(1500*time.Millisecond), clock.now)

	intr := reg(t, 7, fpga.DomQsfpPresentIntr)
	sim.Set(intr, 0x8000)
	sim.SetW1C(intr, fpga.QsfpPortMask)
	sim.Set(reg(t, 7, fpga.DomQsfpPresent), 0x8000)
	ok, changes, err = p.Poll(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, event.ChangeSet{127: event.Inserted}, changes)
}
