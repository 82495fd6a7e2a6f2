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

// Package fpga describes the register map of the Minipack system FPGA: the
// global I/O block (IOB) and the per-PIM DOM blocks.
package fpga

type IobAlias int

const (
	IobRevision IobAlias = iota
	IobScratchpad
	IobInterruptStatus
	IobPimStatus
	IobPimPresentIntrMask
	IobAliasLimit
)

// IobRegMap holds absolute offsets of the global I/O block
var IobRegMap = map[IobAlias]uint32{
	IobRevision:           0x0,
	IobScratchpad:         0x4,
	IobInterruptStatus:    0x2C,
	IobPimStatus:          0x40,
	IobPimPresentIntrMask: 0x44,
}

type DomAlias int

const (
	DomRevision DomAlias = iota
	DomIntrStatus
	DomQsfpPresent
	DomQsfpPresentIntr
	DomQsfpPresentIntrMask
	DomQsfpIntr
	DomQsfpIntrMask
	DomQsfpReset
	DomQsfpLpMode
	DomDevicePowerBadStatus
	DomControlConfig
	DomGlobalStatus
	DomData
	DomMdioConfig
	DomMdioCommand
	DomMdioWrite
	DomMdioRead
	DomMdioStatus
	DomMdioIntrMask
	DomMdioSourceSel
	DomAliasLimit
)

const (
	DomMdioBase uint32 = 0x200
)

// DomRegMap holds offsets relative to a module base address
var DomRegMap = map[DomAlias]uint32{
	DomRevision:             0x0,
	DomIntrStatus:           0x2C,
	DomQsfpPresent:          0x48,
	DomQsfpPresentIntr:      0x50,
	DomQsfpPresentIntrMask:  0x58,
	DomQsfpIntr:             0x60,
	DomQsfpIntrMask:         0x68,
	DomQsfpReset:            0x70,
	DomQsfpLpMode:           0x78,
	DomDevicePowerBadStatus: 0x90,
	DomControlConfig:        0x410,
	DomGlobalStatus:         0x414,
	DomData:                 0x4000,
	DomMdioConfig:           DomMdioBase + 0x00,
	DomMdioCommand:          DomMdioBase + 0x04,
	DomMdioWrite:            DomMdioBase + 0x08,
	DomMdioRead:             DomMdioBase + 0x0C,
	DomMdioStatus:           DomMdioBase + 0x10,
	DomMdioIntrMask:         DomMdioBase + 0x14,
	DomMdioSourceSel:        DomMdioBase + 0x18,
}

// domBase is indexed by the hardware PIM number, which starts at 1.
// Slot 0 is padding and must never be dereferenced.
var domBase = [...]uint32{
	0xFFFFFFFF,
	0x40000,
	0x48000,
	0x50000,
	0x58000,
	0x60000,
	0x68000,
	0x70000,
	0x78000,
}

// MaxModules is the number of PIM slots the register map describes
const MaxModules = len(domBase) - 1

// MaxPortsPerModule is the width of the per-module qsfp bit fields
const MaxPortsPerModule = 16

// pim_status layout: change bits [7:0], presence bits [23:16], one per PIM
const (
	PimChangeMask    uint32 = 0x000000ff
	PimPresentShift         = 16
	PimPresentMask   uint32 = 0x00ff0000
	PimPresentWindow        = 8
)

// qsfp register layout: one bit per port in [15:0]
const (
	QsfpPortMask uint32 = 0x0000ffff
)

// Interrupt mask patterns written before polling.
// The PIM pattern is the 32-bit value the FPGA latches from the 0xffff00000
// constant used by the vendor utilities.
const (
	QsfpIntrMaskEnable       uint32 = 0xffff0000
	PimPresentIntrMaskEnable uint32 = 0xfff00000
)

const (
	MdioSourceSelBit uint32 = 0x2
)
