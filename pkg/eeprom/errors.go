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

package eeprom

import (
	"fmt"
)

type ErrShortPage struct {
	Len int
}

func (e ErrShortPage) Error() string {
	return fmt.Sprintf("EEPROM page too short: %d bytes, need %d", e.Len, PageSize)
}

// ErrRead returned when the EEPROM of a port can not be read
type ErrRead struct {
	Port int
	Bus  int
	Err  error
}

func (e ErrRead) Error() string {
	return fmt.Sprintf("Error while reading EEPROM of port %d on bus %d: %v", e.Port, e.Bus, e.Err)
}

func (e ErrRead) Unwrap() error {
	return e.Err
}
