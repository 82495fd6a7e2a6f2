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

package server

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/gateway"
)

const (
	IPOptionName   = "ip"
	PortOptionName = "port"
	SimOptionName  = "sim"
)

func NewStartCommand() *cobra.Command {
	var ip string
	var port int
	var sim bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start PIM daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ip != "" {
				cfg.Api.IP = ip
			}
			if port != 0 {
				cfg.Api.Port = port
			}
			if sim {
				cfg.Gateway.Kind = gateway.KindSim
			}
			return command.StartServer(cfg)
		},
	}
	cmd.Flags().StringVar(&ip, IPOptionName, "", fmt.Sprintf("IP to bind. E.g. %s", config.DefaultApiIP))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("API port. E.g. %d", config.DefaultApiPort))
	cmd.Flags().BoolVar(&sim, SimOptionName, false, "Use the simulated register file instead of the FPGA")

	return cmd
}
