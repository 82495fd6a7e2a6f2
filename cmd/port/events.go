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

func NewEventsCommand() *cobra.Command {
	var timeout int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Wait for transceiver insertion or removal",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			resp, err := apiClient.PortEvents(timeout)
			if err != nil {
				return err
			}
			if !resp.Reported {
				return fmt.Errorf("event poll with timeout %d ms was not performed", timeout)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Port changes: %s\n", resp.Changes)
			return nil
		},
	}
	cmd.Flags().IntVar(&timeout, TimeoutOptionName, 1000, "Timeout in milliseconds. 0 waits forever")

	return cmd
}
