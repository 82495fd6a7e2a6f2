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

// Package layout translates logical port numbers into module slots and
// EEPROM bus numbers.
package layout

import (
	"fmt"

	"jinr.ru/greenlab/go-pim/pkg/fpga"
)

const (
	// BusGroupSize is the number of ports behind one I2C mux
	BusGroupSize  = 8
	EEPROMAddr    = 0x50
	EEPROMPathFmt = "/sys/bus/i2c/devices/%d-%04x/eeprom"
)

type Layout struct {
	ports          int
	portsPerModule int
	busBase        int
}

// New validates the port layout against the register map
func New(ports, portsPerModule, busBase int) (*Layout, error) {
	if portsPerModule <= 0 || portsPerModule > fpga.MaxPortsPerModule {
		return nil, ErrBadLayout{What: fmt.Sprintf("ports per module %d not in [1, %d]", portsPerModule, fpga.MaxPortsPerModule)}
	}
	if ports <= 0 {
		return nil, ErrBadLayout{What: fmt.Sprintf("port count %d must be positive", ports)}
	}
	l := &Layout{
		ports:          ports,
		portsPerModule: portsPerModule,
		busBase:        busBase,
	}
	if l.Modules() > fpga.MaxModules {
		return nil, ErrBadLayout{What: fmt.Sprintf("%d ports need %d modules, register map has %d", ports, l.Modules(), fpga.MaxModules)}
	}
	return l, nil
}

func (l *Layout) Ports() int {
	return l.ports
}

func (l *Layout) PortsPerModule() int {
	return l.portsPerModule
}

func (l *Layout) BusBase() int {
	return l.busBase
}

// Modules is the number of module slots needed to host every port
func (l *Layout) Modules() int {
	return (l.ports + l.portsPerModule - 1) / l.portsPerModule
}

// ResolveModule returns the module hosting the port and the port's bit
// inside the module registers
func (l *Layout) ResolveModule(port int) (module, intra int, err error) {
	if err = l.CheckPort(port); err != nil {
		return 0, 0, err
	}
	return port / l.portsPerModule, port % l.portsPerModule, nil
}

// Port is the inverse of ResolveModule
func (l *Layout) Port(module, intra int) (int, error) {
	if err := l.CheckModule(module); err != nil {
		return 0, err
	}
	if intra < 0 || intra >= l.portsPerModule {
		return 0, ErrOutOfRange{Port: intra, Limit: l.portsPerModule}
	}
	port := module*l.portsPerModule + intra
	if err := l.CheckPort(port); err != nil {
		return 0, err
	}
	return port, nil
}

// ResolveBus returns the I2C bus of the port's EEPROM. Lanes are swapped in
// pairs and reversed inside each group of eight to follow the mux wiring.
func (l *Layout) ResolveBus(port int) (int, error) {
	if err := l.CheckPort(port); err != nil {
		return 0, err
	}
	group := (port/BusGroupSize)*BusGroupSize + l.busBase
	lane := BusGroupSize - 1 - port%BusGroupSize
	if lane%2 == 1 {
		lane--
	} else {
		lane++
	}
	return group + lane, nil
}

// EEPROMPath returns the sysfs node of the port's EEPROM
func (l *Layout) EEPROMPath(port int) (string, error) {
	bus, err := l.ResolveBus(port)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(EEPROMPathFmt, bus, EEPROMAddr), nil
}

func (l *Layout) CheckPort(port int) error {
	if port < 0 || port >= l.ports {
		return ErrOutOfRange{Port: port, Limit: l.ports}
	}
	return nil
}

func (l *Layout) CheckModule(module int) error {
	if module < 0 || module >= l.Modules() {
		return fpga.ErrInvalidModule{Module: module}
	}
	return nil
}
