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
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/event"
)

func NewWatchCommand() *cobra.Command {
	var timeout int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print transceiver changes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			w, err := command.NewWatcher(apiClient.PortEvents, timeout)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			err = w.Run(ctx, func(changes event.ChangeSet) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", time.Now().Format(time.RFC3339), changes)
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&timeout, TimeoutOptionName, 5000, "Timeout of a single event request in milliseconds")

	return cmd
}
