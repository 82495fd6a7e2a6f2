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
	"github.com/spf13/cobra"
)

const (
	ModuleOptionName  = "module"
	TimeoutOptionName = "timeout"
	SetOptionName     = "set"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Query and control PIM line cards",
	}
	cmd.AddCommand(NewPresenceCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewBoardCommand())
	cmd.AddCommand(NewQsfpCommand())
	cmd.AddCommand(NewMdioCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewEventsCommand())
	return cmd
}
