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

package gateway

import (
	"fmt"
)

// ErrHardwareIO returned when a register access fails in the transport
type ErrHardwareIO struct {
	Op     string
	Offset uint32
	Err    error
}

func (e ErrHardwareIO) Error() string {
	return fmt.Sprintf("Hardware %s failed at offset 0x%05x: %v", e.Op, e.Offset, e.Err)
}

func (e ErrHardwareIO) Unwrap() error {
	return e.Err
}

// ErrBadOffset returned when an offset is unaligned or outside the mapped window
type ErrBadOffset struct {
	Offset uint32
	Size   int
}

func (e ErrBadOffset) Error() string {
	return fmt.Sprintf("Offset 0x%x is not an aligned word inside a %d byte window", e.Offset, e.Size)
}

// ErrUnknownKind returned when the configured gateway kind is not supported
type ErrUnknownKind struct {
	Kind string
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("Unknown gateway kind %q. Must be one of: %s, %s", e.Kind, KindMMIO, KindSim)
}
