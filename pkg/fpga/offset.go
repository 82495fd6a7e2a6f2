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

package fpga

// ModuleOffset returns the base address of the DOM block of a module.
// Modules are numbered from 0; the hardware PIM number is module+1.
func ModuleOffset(module int) (uint32, error) {
	if module < 0 || module >= MaxModules {
		return 0, ErrInvalidModule{Module: module}
	}
	return domBase[module+1], nil
}

// ModuleReg returns the absolute offset of a DOM register of a module
func ModuleReg(module int, alias DomAlias) (uint32, error) {
	base, err := ModuleOffset(module)
	if err != nil {
		return 0, err
	}
	return base + DomRegMap[alias], nil
}

// IobReg returns the absolute offset of a global register
func IobReg(alias IobAlias) uint32 {
	return IobRegMap[alias]
}
