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
	"jinr.ru/greenlab/go-pim/pkg/log"
)

// SetLowPowerMode holds (true) or releases (false) the port in low power mode.
// Other ports of the module keep their bits.
func (d *Device) SetLowPowerMode(port int, enabled bool) error {
	offset, bit, err := d.portReg(port, fpga.DomQsfpLpMode)
	if err != nil {
		return err
	}
	log.Info("Setting low power mode: port: %d enabled: %t", port, enabled)
	set := uint32(0)
	if enabled {
		set = bit
	}
	return d.modify(offset, bit, set)
}

// Reset asserts the active-low reset line of the port by clearing its bit.
// The line stays asserted until something writes the bit back.
func (d *Device) Reset(port int) error {
	offset, bit, err := d.portReg(port, fpga.DomQsfpReset)
	if err != nil {
		return err
	}
	log.Info("Resetting port: %d", port)
	return d.modify(offset, bit, 0)
}

// SetMdioSourceSel hands the module MDIO bus to the MAC or to the FPGA
func (d *Device) SetMdioSourceSel(module int, path MdioPath) error {
	offset, err := d.moduleReg(module, fpga.DomMdioSourceSel)
	if err != nil {
		return err
	}
	set := uint32(0)
	if path == MdioFpga {
		set = fpga.MdioSourceSelBit
	}
	return d.modify(offset, fpga.MdioSourceSelBit, set)
}

// Init prepares a freshly inserted module: the MDIO bus is routed to the MAC
func (d *Device) Init(module int) error {
	log.Info("Initializing module: %d", module)
	return d.SetMdioSourceSel(module, MdioMac)
}
