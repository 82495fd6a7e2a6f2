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

package events

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

const (
	KindOptionName  = "kind"
	LimitOptionName = "limit"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect journaled change events",
	}
	cmd.AddCommand(NewHistoryCommand())
	return cmd
}

func NewHistoryCommand() *cobra.Command {
	var kind string
	var limit int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:       "history",
		Short:     "Show reported change sets, newest first",
		ValidArgs: []string{srv.KindPort, srv.KindModule},
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			records, err := apiClient.History(kind, limit)
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %-6s %s\n",
					rec.Time.Local().Format("2006-01-02 15:04:05.000"), rec.ID, rec.Kind, rec.Changes)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, KindOptionName, srv.KindPort,
		fmt.Sprintf("Event kind. One of: %s, %s", srv.KindPort, srv.KindModule))
	cmd.Flags().IntVar(&limit, LimitOptionName, 20, "Number of records to show. 0 shows all")

	return cmd
}
