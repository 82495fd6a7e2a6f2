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

package config

const (
	ConfigDir  = ".go-pim"
	ConfigFile = "config"
	EnvFile    = ".env"
	DBFile     = "events.db"
	EnvPrefix  = "GO_PIM_"

	DefaultLogLevel       = "info"
	DefaultPorts          = 128
	DefaultPortsPerModule = 16
	DefaultBusBase        = 10

	DefaultGatewayKind     = "mmio"
	DefaultGatewayResource = "/sys/bus/pci/devices/0000:07:00.0/resource0"
	DefaultGatewaySize     = 0x80000
	DefaultSimModules      = 8

	DefaultApiIP   = "127.0.0.1"
	DefaultApiPort = 8010

	DefaultPollGranularityMs = 1000

	DefaultPublishChannel = "go-pim.events"
)
