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

package srv

import (
	"fmt"
)

// ErrUnknownKind returned when an event kind is neither port nor module
type ErrUnknownKind struct {
	Kind string
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("Unknown event kind %q. Must be one of: %s, %s", e.Kind, KindPort, KindModule)
}

// ErrBucketNotFound returned when the journal database misses a bucket
type ErrBucketNotFound struct {
	Bucket string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", e.Bucket)
}

type ErrBadParam struct {
	Name  string
	Value string
}

func (e ErrBadParam) Error() string {
	return fmt.Sprintf("Bad value of %s: %q", e.Name, e.Value)
}
