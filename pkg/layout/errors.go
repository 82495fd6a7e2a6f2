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

package layout

import (
	"fmt"
)

// ErrOutOfRange returned when a port number is outside [0, Limit-1]
type ErrOutOfRange struct {
	Port  int
	Limit int
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("Port %d out of range [0, %d]", e.Port, e.Limit-1)
}

// ErrBadLayout returned when the configured layout does not fit the register map
type ErrBadLayout struct {
	What string
}

func (e ErrBadLayout) Error() string {
	return fmt.Sprintf("Bad port layout: %s", e.What)
}
