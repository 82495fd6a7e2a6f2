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
	"strconv"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
)

func NewLpModeCommand() *cobra.Command {
	var port int
	var set string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "lpmode",
		Short: "Get or set low power mode of the port",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if set != "" {
				enabled, err := strconv.ParseBool(set)
				if err != nil {
					return err
				}
				if err := apiClient.SetLowPowerMode(port, enabled); err != nil {
					return err
				}
			}
			enabled, err := apiClient.LowPowerMode(port)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Port %d low power mode: %t\n", port, enabled)
			return nil
		},
	}
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Port number")
	cmd.MarkFlagRequired(PortOptionName)
	cmd.Flags().StringVar(&set, SetOptionName, "", "Hold (true) or release (false) low power mode")

	return cmd
}
