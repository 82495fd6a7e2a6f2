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
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"jinr.ru/greenlab/go-pim/pkg/gateway/ifc"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

const wordSize = 4

// MMIO accesses FPGA registers through a shared mapping of a PCI BAR
// resource file (e.g. /sys/bus/pci/devices/0000:07:00.0/resource0).
type MMIO struct {
	path string
	file *os.File
	mem  []byte
}

var _ ifc.Gateway = &MMIO{}

// OpenMMIO maps size bytes of the resource file at path
func OpenMMIO(path string, size int) (*MMIO, error) {
	log.Info("Mapping FPGA registers: resource: %s size: 0x%x", path, size)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, ErrHardwareIO{Op: "open", Err: err}
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, ErrHardwareIO{Op: "mmap", Err: err}
	}
	return &MMIO{path: path, file: f, mem: mem}, nil
}

func (m *MMIO) word(offset uint32) (*uint32, error) {
	if offset%wordSize != 0 || int(offset)+wordSize > len(m.mem) {
		return nil, ErrBadOffset{Offset: offset, Size: len(m.mem)}
	}
	return (*uint32)(unsafe.Pointer(&m.mem[offset])), nil
}

func (m *MMIO) Read(offset uint32) (uint32, error) {
	w, err := m.word(offset)
	if err != nil {
		return 0, ErrHardwareIO{Op: "read", Offset: offset, Err: err}
	}
	return atomic.LoadUint32(w), nil
}

func (m *MMIO) Write(offset uint32, value uint32) error {
	w, err := m.word(offset)
	if err != nil {
		return ErrHardwareIO{Op: "write", Offset: offset, Err: err}
	}
	atomic.StoreUint32(w, value)
	return nil
}

// Close unmaps the register window. The gateway is unusable afterwards.
func (m *MMIO) Close() error {
	if m.mem == nil {
		return nil
	}
	log.Info("Releasing FPGA registers: resource: %s", m.path)
	err := unix.Munmap(m.mem)
	m.mem = nil
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
		m.file = nil
	}
	if err != nil {
		return ErrHardwareIO{Op: "release", Err: err}
	}
	return nil
}
