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

// Package sfp is the call contract used by platform plugins. Bad port or
// module numbers give false or zero results with a nil error; the error
// return only carries register access failures.
package sfp

import (
	"errors"

	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/layout"
	"jinr.ru/greenlab/go-pim/pkg/log"
	"jinr.ru/greenlab/go-pim/pkg/pim"
)

type Sfp struct {
	dev     *pim.Device
	ports   *event.Poller
	modules *event.Poller
}

func New(dev *pim.Device, opts ...event.Option) *Sfp {
	return &Sfp{
		dev:     dev,
		ports:   event.NewPoller("port", dev.PortEvents(), opts...),
		modules: event.NewPoller("module", dev.ModuleEvents(), opts...),
	}
}

func (s *Sfp) Device() *pim.Device {
	return s.dev
}

// degrade reports and swallows bad port or module numbers
func degrade(err error) error {
	var oor layout.ErrOutOfRange
	var invalid fpga.ErrInvalidModule
	if errors.As(err, &oor) || errors.As(err, &invalid) {
		log.Warning("%s", err)
		return nil
	}
	return err
}

func (s *Sfp) boolResult(value bool, err error) (bool, error) {
	if err != nil {
		return false, degrade(err)
	}
	return value, nil
}

func (s *Sfp) Presence(port int) (bool, error) {
	return s.boolResult(s.dev.PortPresent(port))
}

func (s *Sfp) LowPowerMode(port int) (bool, error) {
	return s.boolResult(s.dev.LowPowerMode(port))
}

// SetLowPowerMode returns true once the register is written
func (s *Sfp) SetLowPowerMode(port int, enabled bool) (bool, error) {
	return s.boolResult(true, s.dev.SetLowPowerMode(port, enabled))
}

func (s *Sfp) Reset(port int) (bool, error) {
	return s.boolResult(true, s.dev.Reset(port))
}

// TransceiverChangeEvent waits for port insertion or removal, see event.Poller.Poll
func (s *Sfp) TransceiverChangeEvent(timeoutMs int) (bool, event.ChangeSet, error) {
	return s.ports.Poll(timeoutMs)
}

func (s *Sfp) ModulePresence(module int) (bool, error) {
	return s.boolResult(s.dev.ModulePresent(module))
}

// ModuleStatus returns the bad power rail vector, 0 for unknown modules
func (s *Sfp) ModuleStatus(module int) (uint32, error) {
	status, err := s.dev.ModulePowerStatus(module)
	if err != nil {
		return 0, degrade(err)
	}
	return status, nil
}

// ModuleBoardKind returns false as the second value for unknown modules
func (s *Sfp) ModuleBoardKind(module int) (pim.BoardKind, bool, error) {
	kind, err := s.dev.ModuleBoardKind(module)
	if err != nil {
		return pim.LowSpeed, false, degrade(err)
	}
	return kind, true, nil
}

func (s *Sfp) ModuleInit(module int) (bool, error) {
	return s.boolResult(true, s.dev.Init(module))
}

// ModuleChangeEvent waits for PIM insertion or removal, see event.Poller.Poll
func (s *Sfp) ModuleChangeEvent(timeoutMs int) (bool, event.ChangeSet, error) {
	return s.modules.Poll(timeoutMs)
}
