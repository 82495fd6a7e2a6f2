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

func NewPresenceCommand() *cobra.Command {
	var module int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Check if the PIM is inserted",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			present, err := apiClient.ModulePresence(module)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module %d present: %t\n", module, present)
			return nil
		},
	}
	cmd.Flags().IntVar(&module, ModuleOptionName, 0, "Module number")
	cmd.MarkFlagRequired(ModuleOptionName)

	return cmd
}

func NewStatusCommand() *cobra.Command {
	var module int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bad power rails of the PIM",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			status, err := apiClient.ModuleStatus(module)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module %d power status: 0x%03x\n", module, status)
			for rail := 0; rail < pim.PowerRails; rail++ {
				if status&(1<<uint(rail)) != 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  rail %d: bad\n", rail)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&module, ModuleOptionName, 0, "Module number")
	cmd.MarkFlagRequired(ModuleOptionName)

	return cmd
}

func NewBoardCommand() *cobra.Command {
	var module int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board kind of the PIM",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			board, err := apiClient.ModuleBoard(module)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module %d board: %s\n", module, board)
			return nil
		},
	}
	cmd.Flags().IntVar(&module, ModuleOptionName, 0, "Module number")
	cmd.MarkFlagRequired(ModuleOptionName)

	return cmd
}

func NewQsfpCommand() *cobra.Command {
	var module int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "qsfp",
		Short: "Show raw QSFP presence registers of the PIM",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			status, err := apiClient.ModuleQsfp(module)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "qsfp_present:           0x%04x\n", status.Present)
			fmt.Fprintf(out, "qsfp_present_intr:      0x%04x\n", status.PresentIntr)
			fmt.Fprintf(out, "qsfp_present_intr_mask: 0x%08x\n", status.PresentIntrMask)
			return nil
		},
	}
	cmd.Flags().IntVar(&module, ModuleOptionName, 0, "Module number")
	cmd.MarkFlagRequired(ModuleOptionName)

	return cmd
}
