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

import (
	"fmt"
	"sort"
)

// A ModelInvalidError reports the first structural contract violation found in a model.
// The engine refuses to analyze a malformed model rather than guessing.
type ModelInvalidError struct {
	// Ref names the offending reference, e.g. "dataflow edge 3 -> 12"
	Ref string
	// Reason explains the violation
	Reason string
}

func (e *ModelInvalidError) Error() string {
	return fmt.Sprintf("invalid semantic model: %s: %s", e.Ref, e.Reason)
}

// Validate checks the structural contract of the model: every graph edge endpoint must
// exist in the arena, the scope tree must have no orphaned declarations, and coupling
// graph entity references must resolve. The first offending reference is reported.
func (m *Model) Validate() error {
	if err := m.validateCFG(); err != nil {
		return err
	}
	if err := m.validateDFG(); err != nil {
		return err
	}
	if err := m.validateScopes(); err != nil {
		return err
	}
	if err := m.validateCoupling(); err != nil {
		return err
	}
	return nil
}

func (m *Model) validateCFG() error {
	for _, from := range sortedKeys(m.CFG.Succs) {
		if !m.arena.Valid(from) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("control-flow node %d", from),
				Reason: "origin not in arena",
			}
		}
		for _, e := range m.CFG.Succs[from] {
			if !m.arena.Valid(e.To) {
				return &ModelInvalidError{
					Ref:    fmt.Sprintf("control-flow edge %d -> %d", from, e.To),
					Reason: "endpoint not in arena",
				}
			}
		}
	}
	return nil
}

func (m *Model) validateDFG() error {
	for _, id := range m.DFG.NodeIDs() {
		if !m.arena.Valid(id) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("dataflow node %d", id),
				Reason: "node not in arena",
			}
		}
		n := m.DFG.Nodes[id]
		if n.Fn != InvalidEntity && !m.arena.Valid(n.Fn) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("dataflow node %d", id),
				Reason: fmt.Sprintf("enclosing function %d not in arena", n.Fn),
			}
		}
		if n.Call != InvalidEntity && !m.arena.Valid(n.Call) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("dataflow node %d", id),
				Reason: fmt.Sprintf("call site %d not in arena", n.Call),
			}
		}
	}
	for _, from := range sortedKeys(m.DFG.Succs) {
		if _, ok := m.DFG.Nodes[from]; !ok {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("dataflow node %d", from),
				Reason: "edge origin is not a dataflow node",
			}
		}
		for _, e := range m.DFG.Succs[from] {
			if !m.arena.Valid(e.To) {
				return &ModelInvalidError{
					Ref:    fmt.Sprintf("dataflow edge %d -> %d", from, e.To),
					Reason: "endpoint not in arena",
				}
			}
			if _, ok := m.DFG.Nodes[e.To]; !ok {
				return &ModelInvalidError{
					Ref:    fmt.Sprintf("dataflow edge %d -> %d", from, e.To),
					Reason: "endpoint is not a dataflow node",
				}
			}
		}
	}
	for _, id := range m.DFG.CallIDs() {
		cs := m.DFG.Calls[id]
		if !m.arena.Valid(cs.ID) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("call site %d", id),
				Reason: "call site not in arena",
			}
		}
		if cs.Caller != InvalidEntity && !m.arena.Valid(cs.Caller) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("call site %d", id),
				Reason: fmt.Sprintf("caller %d not in arena", cs.Caller),
			}
		}
		for _, t := range cs.Targets {
			if !m.arena.Valid(t) {
				return &ModelInvalidError{
					Ref:    fmt.Sprintf("call site %d", id),
					Reason: fmt.Sprintf("call target %d not in arena", t),
				}
			}
		}
	}
	return nil
}

func (m *Model) validateScopes() error {
	for i, s := range m.Scopes.Scopes {
		if s.Parent != RootScope && (s.Parent < 0 || int(s.Parent) >= len(m.Scopes.Scopes)) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("scope %d", i),
				Reason: fmt.Sprintf("parent scope %d does not exist", s.Parent),
			}
		}
		for _, d := range s.Decls {
			if !m.arena.Valid(d.Entity) {
				return &ModelInvalidError{
					Ref:    fmt.Sprintf("declaration %q in scope %d", d.Name, i),
					Reason: fmt.Sprintf("orphaned declaration: entity %d not in arena", d.Entity),
				}
			}
		}
	}
	return nil
}

func (m *Model) validateCoupling() error {
	for i, e := range m.Coupling.Edges {
		if !m.arena.Valid(e.From) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("coupling edge %d", i),
				Reason: fmt.Sprintf("entity %d does not resolve", e.From),
			}
		}
		if !m.arena.Valid(e.To) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("coupling edge %d", i),
				Reason: fmt.Sprintf("entity %d does not resolve", e.To),
			}
		}
	}
	for _, l := range m.Literals {
		if !m.arena.Valid(l.Site) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("literal %q", l.Value),
				Reason: fmt.Sprintf("site %d not in arena", l.Site),
			}
		}
	}
	for _, fn := range sortedKeys(m.Signatures) {
		if !m.arena.Valid(fn) {
			return &ModelInvalidError{
				Ref:    fmt.Sprintf("signature of %d", fn),
				Reason: "function not in arena",
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[EntityID]V) []EntityID {
	ks := make([]EntityID, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}
