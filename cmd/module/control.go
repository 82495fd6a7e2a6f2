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

package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pim/pkg/command"
	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/pim"
)

func NewMdioCommand() *cobra.Command {
	var module int
	var set string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "mdio",
		Short: "Get or set the owner of the PIM MDIO bus",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if set != "" {
				if err := apiClient.SetModuleMdio(module, set); err != nil {
					return err
				}
			}
			path, err := apiClient.ModuleMdio(module)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module %d MDIO source: %s\n", module, path)
			return nil
		},
	}
	cmd.Flags().IntVar(&module, ModuleOptionName, 0, "Module number")
	cmd.MarkFlagRequired(ModuleOptionName)
	cmd.Flags().StringVar(&set, SetOptionName, "",
		fmt.Sprintf("MDIO source. One of: %s, %s", pim.MdioMac, pim.MdioFpga))

	return cmd
}

func NewInitCommand() *cobra.Command {
	var module int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Prepare a freshly inserted PIM",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			return apiClient.ModuleInit(module)
		},
	}
	cmd.Flags().IntVar(&module, ModuleOptionName, 0, "Module number")
	cmd.MarkFlagRequired(ModuleOptionName)

	return cmd
}

func NewEventsCommand() *cobra.Command {
	var timeout int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Wait for PIM insertion or removal",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			resp, err := apiClient.ModuleEvents(timeout)
			if err != nil {
				return err
			}
			if !resp.Reported {
				return fmt.Errorf("event poll with timeout %d ms was not performed", timeout)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module changes: %s\n", resp.Changes)
			return nil
		},
	}
	cmd.Flags().IntVar(&timeout, TimeoutOptionName, 1000, "Timeout in milliseconds. 0 waits forever")

	return cmd
}
