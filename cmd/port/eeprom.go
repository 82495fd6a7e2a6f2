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

package port

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
)

func NewEEPROMCommand() *cobra.Command {
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "eeprom",
		Short: "Show the identification of the transceiver in the port",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			info, err := apiClient.EEPROM(port)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(info)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Port number")
	cmd.MarkFlagRequired(PortOptionName)

	return cmd
}
