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

package ifc

import (
	"jinr.ru/greenlab/go-pim/pkg/eeprom"
	"jinr.ru/greenlab/go-pim/pkg/pim"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

type ApiClient interface {
	PortPresence(port int) (bool, error)
	LowPowerMode(port int) (bool, error)
	SetLowPowerMode(port int, enabled bool) error
	Reset(port int) error
	EEPROM(port int) (*eeprom.Info, error)
	PortEvents(timeoutMs int) (*srv.EventResp, error)

	ModulePresence(module int) (bool, error)
	ModuleStatus(module int) (uint32, error)
	ModuleBoard(module int) (string, error)
	ModuleQsfp(module int) (*pim.QsfpStatus, error)
	ModuleMdio(module int) (string, error)
	SetModuleMdio(module int, path string) error
	ModuleInit(module int) error
	ModuleEvents(timeoutMs int) (*srv.EventResp, error)

	History(kind string, limit int) ([]*srv.Record, error)

	RegRead(addr string) (string, error)
	RegWrite(addr, value string) error
}
