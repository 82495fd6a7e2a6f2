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
	"jinr.ru/greenlab/go-pim/pkg/fpga"
)

type BoardKind int

const (
	LowSpeed BoardKind = iota
	HighSpeed
)

func (k BoardKind) String() string {
	if k == HighSpeed {
		return "400G"
	}
	return "100G"
}

func (k BoardKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MdioPath is the owner of the module MDIO bus
type MdioPath int

const (
	MdioMac MdioPath = iota
	MdioFpga
)

func (p MdioPath) String() string {
	if p == MdioFpga {
		return "fpga"
	}
	return "mac"
}

func (p MdioPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// powerRail maps bits of device_power_bad_status onto the logical rail
// vector. A rail is bad when any bit of its mask is set.
type powerRail struct {
	mask uint32
	bit  uint
}

var powerRails = []powerRail{
	{0x00000001, 0},
	{0x00000020, 1},
	{0x00000300, 2},
	{0x00004000, 3},
	{0x00050000, 4},
	{0x01000000, 5},
	{0x02000000, 6},
	{0x08000000, 7},
	{0x10000000, 8},
	{0x40000000, 9},
	{0x80000000, 10},
}

// PowerRails is the width of the vector returned by ModulePowerStatus
var PowerRails = len(powerRails)

// QsfpStatus holds the raw qsfp presence registers of one module
type QsfpStatus struct {
	Present         uint32 `json:"present"`
	PresentIntr     uint32 `json:"presentIntr"`
	PresentIntrMask uint32 `json:"presentIntrMask"`
}

// ModulePresent reports the module presence bit of pim_status
func (d *Device) ModulePresent(module int) (bool, error) {
	if err := d.layout.CheckModule(module); err != nil {
		return false, err
	}
	bit := uint32(1) << uint(fpga.PimPresentShift+module)
	return d.testBit(fpga.IobReg(fpga.IobPimStatus), bit)
}

// ModuleBoardKind reads the DOM revision. Revision 0 is the 100G board.
func (d *Device) ModuleBoardKind(module int) (BoardKind, error) {
	offset, err := d.moduleReg(module, fpga.DomRevision)
	if err != nil {
		return LowSpeed, err
	}
	revision, err := d.ReadReg(offset)
	if err != nil {
		return LowSpeed, err
	}
	if revision == 0 {
		return LowSpeed, nil
	}
	return HighSpeed, nil
}

// ModulePowerStatus returns the bad power rails of the module as an
// 11-bit vector
func (d *Device) ModulePowerStatus(module int) (uint32, error) {
	offset, err := d.moduleReg(module, fpga.DomDevicePowerBadStatus)
	if err != nil {
		return 0, err
	}
	status, err := d.ReadReg(offset)
	if err != nil {
		return 0, err
	}
	return repackPower(status), nil
}

func repackPower(status uint32) uint32 {
	var vector uint32
	for _, rail := range powerRails {
		if status&rail.mask != 0 {
			vector |= 1 << rail.bit
		}
	}
	return vector
}

func (d *Device) PortPresent(port int) (bool, error) {
	offset, bit, err := d.portReg(port, fpga.DomQsfpPresent)
	if err != nil {
		return false, err
	}
	return d.testBit(offset, bit)
}

// LowPowerMode reports whether the port is held in low power mode
func (d *Device) LowPowerMode(port int) (bool, error) {
	offset, bit, err := d.portReg(port, fpga.DomQsfpLpMode)
	if err != nil {
		return false, err
	}
	return d.testBit(offset, bit)
}

func (d *Device) QsfpStatus(module int) (*QsfpStatus, error) {
	if err := d.layout.CheckModule(module); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	status := &QsfpStatus{}
	for _, r := range []struct {
		alias fpga.DomAlias
		dst   *uint32
	}{
		{fpga.DomQsfpPresent, &status.Present},
		{fpga.DomQsfpPresentIntr, &status.PresentIntr},
		{fpga.DomQsfpPresentIntrMask, &status.PresentIntrMask},
	} {
		offset, err := fpga.ModuleReg(module, r.alias)
		if err != nil {
			return nil, err
		}
		if *r.dst, err = d.read(offset); err != nil {
			return nil, err
		}
	}
	return status, nil
}

func (d *Device) MdioSourceSel(module int) (MdioPath, error) {
	offset, err := d.moduleReg(module, fpga.DomMdioSourceSel)
	if err != nil {
		return MdioMac, err
	}
	fpgaSide, err := d.testBit(offset, fpga.MdioSourceSelBit)
	if err != nil {
		return MdioMac, err
	}
	if fpgaSide {
		return MdioFpga, nil
	}
	return MdioMac, nil
}
