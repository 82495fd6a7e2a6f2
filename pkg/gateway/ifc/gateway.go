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

package ifc

// Gateway is a 32-bit register window into the system FPGA.
// Offsets are absolute byte offsets from the start of the window.
type Gateway interface {
	Read(offset uint32) (uint32, error)
	Write(offset uint32, value uint32) error

	// Close releases the hardware resources held by the gateway
	Close() error
}
