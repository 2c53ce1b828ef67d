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

package semantic

import "sync"

// A Cache stores built models keyed by their content fingerprint, so a model for an
// unchanged compilation unit can be reused across runs. Safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	models map[string]*Model
}

// NewCache returns an empty model cache
func NewCache() *Cache {
	return &Cache{models: map[string]*Model{}}
}

// Get returns the cached model with the given fingerprint, if present
func (c *Cache) Get(fingerprint string) (*Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.models[fingerprint]
	return m, ok
}

// Put stores the model under its fingerprint
func (c *Cache) Put(m *Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models[m.Fingerprint()] = m
}

// Len returns the number of cached models
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.models)
}
