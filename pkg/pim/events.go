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
	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

type portSource struct {
	*Device
}

type moduleSource struct {
	*Device
}

// latch is a write-one-to-clear acknowledgement
type latch struct {
	offset uint32
	value  uint32
}

var _ event.Source = portSource{}
var _ event.Source = moduleSource{}

// PortEvents is the interrupt source of QSFP insertion and removal
func (d *Device) PortEvents() event.Source {
	return portSource{d}
}

// ModuleEvents is the interrupt source of PIM insertion and removal
func (d *Device) ModuleEvents() event.Source {
	return moduleSource{d}
}

// portBits is the mask of qsfp bits backed by real ports in the module
func (d *Device) portBits(module int) uint32 {
	first := module * d.layout.PortsPerModule()
	n := d.layout.Ports() - first
	if n > d.layout.PortsPerModule() {
		n = d.layout.PortsPerModule()
	}
	return (uint32(1)<<uint(n) - 1) & fpga.QsfpPortMask
}

// Arm does nothing, the port masks are rewritten on every sweep
func (s portSource) Arm() error {
	return nil
}

func (s portSource) Sweep() (event.ChangeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	modules := s.layout.Modules()
	for m := 0; m < modules; m++ {
		for _, alias := range []fpga.DomAlias{fpga.DomQsfpPresentIntrMask, fpga.DomQsfpIntrMask} {
			offset, err := fpga.ModuleReg(m, alias)
			if err != nil {
				return nil, err
			}
			if err := s.write(offset, fpga.QsfpIntrMaskEnable); err != nil {
				return nil, err
			}
		}
	}

	// latches are cleared only after every module has been read
	var acks []latch
	changes := event.ChangeSet{}
	for m := 0; m < modules; m++ {
		intrReg, err := fpga.ModuleReg(m, fpga.DomQsfpPresentIntr)
		if err != nil {
			return nil, err
		}
		raw, err := s.read(intrReg)
		if err != nil {
			return nil, err
		}
		pending := raw & s.portBits(m)
		if pending == 0 {
			continue
		}
		presentReg, err := fpga.ModuleReg(m, fpga.DomQsfpPresent)
		if err != nil {
			return nil, err
		}
		present, err := s.read(presentReg)
		if err != nil {
			return nil, err
		}
		for i := 0; i < s.layout.PortsPerModule(); i++ {
			bit := uint32(1) << uint(i)
			if pending&bit == 0 {
				continue
			}
			port, err := s.layout.Port(m, i)
			if err != nil {
				return nil, err
			}
			if present&bit != 0 {
				changes[port] = event.Inserted
			} else {
				changes[port] = event.Removed
			}
		}
		acks = append(acks, latch{offset: intrReg, value: raw | pending})
	}
	for _, ack := range acks {
		if err := s.write(ack.offset, ack.value); err != nil {
			return nil, err
		}
	}
	if len(changes) > 0 {
		log.Info("Port presence changes: %s", changes)
	}
	return changes, nil
}

func (s moduleSource) Arm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fpga.IobReg(fpga.IobPimPresentIntrMask), fpga.PimPresentIntrMaskEnable)
}

func (s moduleSource) Sweep() (event.ChangeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	statusReg := fpga.IobReg(fpga.IobPimStatus)
	status, err := s.read(statusReg)
	if err != nil {
		return nil, err
	}
	intr, err := s.read(fpga.IobReg(fpga.IobInterruptStatus))
	if err != nil {
		return nil, err
	}
	log.Debug("PIM sweep: status: 0x%08x interrupt status: 0x%08x", status, intr)

	valid := uint32(1)<<uint(s.layout.Modules()) - 1
	changed := status & fpga.PimChangeMask & valid
	changes := event.ChangeSet{}
	if changed == 0 {
		return changes, nil
	}
	for m := 0; m < s.layout.Modules(); m++ {
		if changed&(1<<uint(m)) == 0 {
			continue
		}
		if status&(1<<uint(fpga.PimPresentShift+m)) != 0 {
			changes[m] = event.Inserted
		} else {
			changes[m] = event.Removed
		}
	}
	if err := s.write(statusReg, status|changed); err != nil {
		return nil, err
	}
	log.Info("PIM presence changes: %s", changes)
	return changes, nil
}
