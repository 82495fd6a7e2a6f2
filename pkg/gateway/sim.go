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

package gateway

import (
	"sync"

	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/gateway/ifc"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

// Access is one register write seen by the simulator
type Access struct {
	Offset uint32
	Value  uint32
}

// Sim is an in-memory register file. Registers that were never set read as 0.
type Sim struct {
	mu     sync.Mutex
	regs   map[uint32]uint32
	w1c    map[uint32]uint32
	fail   map[uint32]error
	writes []Access
}

var _ ifc.Gateway = &Sim{}

func NewSim() *Sim {
	return &Sim{
		regs: make(map[uint32]uint32),
		w1c:  make(map[uint32]uint32),
		fail: make(map[uint32]error),
	}
}

// NewBoardSim returns a simulator wired like a chassis with the given number
// of PIMs inserted and no transceivers.
func NewBoardSim(modules int) *Sim {
	s := NewSim()
	status := uint32(0)
	for m := 0; m < modules && m < fpga.MaxModules; m++ {
		status |= 1 << (fpga.PimPresentShift + m)
		off, _ := fpga.ModuleReg(m, fpga.DomQsfpPresentIntr)
		s.SetW1C(off, fpga.QsfpPortMask)
		off, _ = fpga.ModuleReg(m, fpga.DomRevision)
		s.Set(off, 1)
	}
	s.Set(fpga.IobReg(fpga.IobPimStatus), status)
	s.SetW1C(fpga.IobReg(fpga.IobPimStatus), fpga.PimChangeMask)
	return s
}

// Set stores a value directly, bypassing write-1-to-clear semantics
func (s *Sim) Set(offset, value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[offset] = value
}

// Get returns the stored value without recording an access
func (s *Sim) Get(offset uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[offset]
}

// SetW1C makes the bits in mask write-1-to-clear. Writes leave the other bits
// of the register untouched.
func (s *Sim) SetW1C(offset, mask uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w1c[offset] = mask
}

// FailOn makes every access to offset fail with err. A nil err removes the failure.
func (s *Sim) FailOn(offset uint32, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, offset)
		return
	}
	s.fail[offset] = err
}

// Writes returns the writes recorded since the last ClearWrites
func (s *Sim) Writes() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Access, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *Sim) ClearWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

func (s *Sim) Read(offset uint32) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[offset]; ok {
		return 0, ErrHardwareIO{Op: "read", Offset: offset, Err: err}
	}
	value := s.regs[offset]
	log.Debug("Sim read: offset: 0x%05x value: 0x%08x", offset, value)
	return value, nil
}

func (s *Sim) Write(offset uint32, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[offset]; ok {
		return ErrHardwareIO{Op: "write", Offset: offset, Err: err}
	}
	log.Debug("Sim write: offset: 0x%05x value: 0x%08x", offset, value)
	s.writes = append(s.writes, Access{Offset: offset, Value: value})
	if mask, ok := s.w1c[offset]; ok {
		s.regs[offset] &^= value & mask
		return nil
	}
	s.regs[offset] = value
	return nil
}

func (s *Sim) Close() error {
	return nil
}
