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

// Package gateway provides the register transports behind ifc.Gateway
package gateway

import (
	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/gateway/ifc"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

const (
	KindMMIO = "mmio"
	KindSim  = "sim"
)

// Open initializes the hardware transport selected by the configuration
func Open(cfg *config.GatewayConfig) (ifc.Gateway, error) {
	log.Debug("Opening gateway: kind: %s", cfg.Kind)
	switch cfg.Kind {
	case KindMMIO:
		return OpenMMIO(cfg.Resource, cfg.Size)
	case KindSim:
		return NewBoardSim(cfg.SimModules), nil
	default:
		return nil, ErrUnknownKind{Kind: cfg.Kind}
	}
}
