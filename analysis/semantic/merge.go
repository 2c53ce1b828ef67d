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

import "fmt"

// Merge combines per-unit models into one model suitable for a cross-unit analysis.
// Entities are renumbered through a fresh arena, keyed by their (unit, local) identity,
// so merging a model that is already part of the result is a no-op: re-merging an
// already-merged model with itself produces an identical model.
//
// A model whose units are all already merged is skipped entirely. A model that shares
// only some of its units with the result is rejected, because its per-unit structures
// (scopes, literals, signatures) cannot be split.
func Merge(models ...*Model) (*Model, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("merge: no models provided")
	}

	b := &Builder{
		arena:      newArena(),
		cfgSuccs:   map[EntityID][]CFGEdge{},
		dfgNodes:   map[EntityID]ValueNode{},
		dfgSuccs:   map[EntityID][]FlowEdge{},
		calls:      map[EntityID]CallSite{},
		signatures: map[EntityID]Signature{},
		units:      map[string]bool{},
		flowSeen:   map[flowKey]bool{},
		cfgSeen:    map[cfgKey]bool{},
	}

	seen := map[string]bool{}
	for _, m := range models {
		covered, fresh := 0, 0
		for _, u := range m.Units {
			if seen[u] {
				covered++
			} else {
				fresh++
			}
		}
		if fresh == 0 {
			// Nothing new; skipping keeps the merge idempotent.
			continue
		}
		if covered > 0 {
			return nil, fmt.Errorf("merge: model overlaps partially with already-merged units %v", m.Units)
		}
		mergeOne(b, m)
		for _, u := range m.Units {
			seen[u] = true
		}
	}

	return b.Build()
}

func mergeOne(b *Builder, m *Model) {
	remap := make(map[EntityID]EntityID, m.arena.Size())
	for i := 0; i < m.arena.Size(); i++ {
		old := EntityID(i)
		e := m.arena.Entity(old)
		remap[old] = b.addEntityIn(e.Unit, e.Kind, e.Local, e.Name, e.Pos)
	}

	for _, from := range sortedKeys(m.CFG.Succs) {
		for _, e := range m.CFG.Succs[from] {
			b.AddCFGEdge(remap[from], remap[e.To], e.Kind)
		}
	}
	for _, id := range m.DFG.NodeIDs() {
		n := m.DFG.Nodes[id]
		b.AddValueNode(ValueNode{
			ID:    remap[n.ID],
			Kind:  n.Kind,
			Fn:    remapOrInvalid(remap, n.Fn),
			Call:  remapOrInvalid(remap, n.Call),
			Index: n.Index,
		})
	}
	for _, from := range sortedKeys(m.DFG.Succs) {
		for _, e := range m.DFG.Succs[from] {
			b.AddFlowEdge(remap[from], remap[e.To], e.Kind, e.Transform)
		}
	}
	for _, id := range m.DFG.CallIDs() {
		cs := m.DFG.Calls[id]
		ncs := CallSite{
			ID:       remap[cs.ID],
			Package:  cs.Package,
			Method:   cs.Method,
			Receiver: cs.Receiver,
			Caller:   remapOrInvalid(remap, cs.Caller),
		}
		for _, t := range cs.Targets {
			ncs.Targets = append(ncs.Targets, remap[t])
		}
		b.AddCallSite(ncs)
	}

	scopeOffset := ScopeID(len(b.scopes))
	for _, s := range m.Scopes.Scopes {
		parent := s.Parent
		if parent != RootScope {
			parent += scopeOffset
		}
		sid := b.AddScope(parent)
		for _, d := range s.Decls {
			nd := d
			nd.Entity = remap[d.Entity]
			b.AddDecl(sid, nd)
		}
	}

	for _, e := range m.Coupling.Edges {
		ne := e
		ne.From = remap[e.From]
		ne.To = remap[e.To]
		b.AddCouplingEdge(ne)
	}
	for _, l := range m.Literals {
		nl := l
		nl.Site = remap[l.Site]
		b.AddLiteralUse(nl)
	}
	for _, fn := range sortedKeys(m.Signatures) {
		b.SetSignature(remap[fn], m.Signatures[fn])
	}
}

func remapOrInvalid(remap map[EntityID]EntityID, id EntityID) EntityID {
	if id == InvalidEntity {
		return InvalidEntity
	}
	return remap[id]
}
