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
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
)

func NewPresenceCommand() *cobra.Command {
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Check if a transceiver is plugged into the port",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			present, err := apiClient.PortPresence(port)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Port %d present: %t\n", port, present)
			return nil
		},
	}
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Port number")
	cmd.MarkFlagRequired(PortOptionName)

	return cmd
}
