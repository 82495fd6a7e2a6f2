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

// Package pim queries and drives PIM modules and their QSFP ports through
// the FPGA register gateway.
package pim

import (
	"sync"

	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/gateway/ifc"
	"jinr.ru/greenlab/go-pim/pkg/layout"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

// Device owns the gateway. Every register sequence, including a whole
// read-modify-write or a whole interrupt sweep, runs under one lock.
type Device struct {
	mu     sync.Mutex
	gw     ifc.Gateway
	layout *layout.Layout
}

func NewDevice(gw ifc.Gateway, l *layout.Layout) *Device {
	return &Device{
		gw:     gw,
		layout: l,
	}
}

func (d *Device) Layout() *layout.Layout {
	return d.layout
}

// Close releases the gateway
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gw.Close()
}

func (d *Device) read(offset uint32) (uint32, error) {
	value, err := d.gw.Read(offset)
	if err != nil {
		return 0, err
	}
	log.Debug("Register read: offset: 0x%05x value: 0x%08x", offset, value)
	return value, nil
}

func (d *Device) write(offset, value uint32) error {
	log.Debug("Register write: offset: 0x%05x value: 0x%08x", offset, value)
	return d.gw.Write(offset, value)
}

// moduleReg checks the module against the layout and returns the register offset
func (d *Device) moduleReg(module int, alias fpga.DomAlias) (uint32, error) {
	if err := d.layout.CheckModule(module); err != nil {
		return 0, err
	}
	return fpga.ModuleReg(module, alias)
}

// portReg resolves the port and returns the module register offset and the port bit
func (d *Device) portReg(port int, alias fpga.DomAlias) (uint32, uint32, error) {
	module, intra, err := d.layout.ResolveModule(port)
	if err != nil {
		return 0, 0, err
	}
	offset, err := fpga.ModuleReg(module, alias)
	if err != nil {
		return 0, 0, err
	}
	return offset, 1 << uint(intra), nil
}

func (d *Device) testBit(offset, bit uint32) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	value, err := d.read(offset)
	if err != nil {
		return false, err
	}
	return value&bit != 0, nil
}

// modify replaces the bits of mask with set under the device lock
func (d *Device) modify(offset, mask, set uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	value, err := d.read(offset)
	if err != nil {
		return err
	}
	return d.write(offset, value&^mask|set&mask)
}

// ReadReg reads a raw register
func (d *Device) ReadReg(offset uint32) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read(offset)
}

// WriteReg writes a raw register
func (d *Device) WriteReg(offset, value uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(offset, value)
}
