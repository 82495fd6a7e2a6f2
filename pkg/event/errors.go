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

package event

import (
	"fmt"
)

// ErrInvalidTimeout describes a timeout the poller refused to run with.
// It is logged, the caller gets an empty result.
type ErrInvalidTimeout struct {
	TimeoutMs int
	Reason    string
}

func (e ErrInvalidTimeout) Error() string {
	return fmt.Sprintf("Invalid poll timeout %d ms: %s", e.TimeoutMs, e.Reason)
}

type ErrBadState struct {
	Value string
}

func (e ErrBadState) Error() string {
	return fmt.Sprintf("Bad presence state %q. Must be one of 0, 1", e.Value)
}
