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

// Package event turns interrupt sweeps into insertion/removal reports with
// bounded-latency polling.
package event

import (
	"fmt"
	"sort"
	"strings"
)

// State is the presence of a port or module after an interrupt
type State int

const (
	Removed State = iota
	Inserted
)

func (s State) String() string {
	if s == Inserted {
		return "inserted"
	}
	return "removed"
}

// MarshalText encodes the state as "1" for Inserted and "0" for Removed
func (s State) MarshalText() ([]byte, error) {
	if s == Inserted {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1":
		*s = Inserted
	case "0":
		*s = Removed
	default:
		return ErrBadState{Value: string(text)}
	}
	return nil
}

// ChangeSet maps a port or module index to its state. Only indices whose
// interrupt bit was set are present.
type ChangeSet map[int]State

// Indices returns the keys in ascending order
func (c ChangeSet) Indices() []int {
	out := make([]int, 0, len(c))
	for i := range c {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (c ChangeSet) String() string {
	parts := make([]string, 0, len(c))
	for _, i := range c.Indices() {
		parts = append(parts, fmt.Sprintf("%d:%s", i, c[i]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
