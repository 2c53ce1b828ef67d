// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package facts

import "sync"

// A Store receives emitted facts. The external fact store implements this; the
// emitter never cares what happens behind it.
type Store interface {
	Add(f Fact) error
}

// A SliceStore is an in-memory store, mainly for tests. It is safe for concurrent
// use.
type SliceStore struct {
	mu    sync.Mutex
	facts []Fact
}

// Add appends the fact.
func (s *SliceStore) Add(f Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = append(s.facts, f)
	return nil
}

// Facts returns a copy of the stored facts in emission order.
func (s *SliceStore) Facts() []Fact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Fact, len(s.facts))
	copy(out, s.facts)
	return out
}

// Len returns the number of stored facts.
func (s *SliceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.facts)
}
