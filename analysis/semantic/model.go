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
	"sort"
	"strconv"

	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
)

// A Model is the immutable semantic representation of one compilation unit, or of a
// merged set of units. It is constructed once through a Builder (or Merge) and never
// mutated afterwards; analyses rely on this to read it concurrently without locks.
type Model struct {
	arena *Arena

	// CFG is the control-flow graph of the unit
	CFG ControlFlowGraph

	// DFG is the data-flow graph of the unit
	DFG DataFlowGraph

	// Scopes is the lexical scope tree of the unit
	Scopes ScopeTree

	// Coupling holds the coupling relations established by construction
	Coupling CouplingGraph

	// Literals are the recorded literal occurrences, sorted by (Value, Site)
	Literals []LiteralUse

	// Signatures maps function entities to their positional parameter signatures
	Signatures map[EntityID]Signature

	// Units lists the compilation units merged into this model, sorted
	Units []string

	fingerprint string
}

// Arena returns the entity arena shared by all substructures
func (m *Model) Arena() *Arena {
	return m.arena
}

// Entity is shorthand for m.Arena().Entity(id)
func (m *Model) Entity(id EntityID) Entity {
	return m.arena.Entity(id)
}

// Fingerprint returns the content hash of the model, computed once at build time.
// Two models built from identical translator output have identical fingerprints, so
// the fingerprint can key a cache of analysis results across runs.
func (m *Model) Fingerprint() string {
	return m.fingerprint
}

// EntityName returns a printable name for the entity: its name when it has one,
// otherwise its kind and id.
func (m *Model) EntityName(id EntityID) string {
	e := m.arena.Entity(id)
	if e.Name != "" {
		return e.Name
	}
	return e.Kind.String() + "#" + strconv.Itoa(int(id))
}

// A Builder accumulates translator output and produces a validated, immutable Model.
// Builders are not safe for concurrent use.
type Builder struct {
	unit       string
	arena      *Arena
	cfgSuccs   map[EntityID][]CFGEdge
	dfgNodes   map[EntityID]ValueNode
	dfgSuccs   map[EntityID][]FlowEdge
	calls      map[EntityID]CallSite
	scopes     []Scope
	coupling   []CouplingEdge
	literals   []LiteralUse
	signatures map[EntityID]Signature
	units      map[string]bool

	flowSeen map[flowKey]bool
	cfgSeen  map[cfgKey]bool
}

type flowKey struct {
	from, to  EntityID
	kind      FlowKind
	transform string
}

type cfgKey struct {
	from, to EntityID
	kind     CFGEdgeKind
}

// NewBuilder returns a builder for the compilation unit named unit.
func NewBuilder(unit string) *Builder {
	return &Builder{
		unit:       unit,
		arena:      newArena(),
		cfgSuccs:   map[EntityID][]CFGEdge{},
		dfgNodes:   map[EntityID]ValueNode{},
		dfgSuccs:   map[EntityID][]FlowEdge{},
		calls:      map[EntityID]CallSite{},
		signatures: map[EntityID]Signature{},
		units:      map[string]bool{unit: true},
		flowSeen:   map[flowKey]bool{},
		cfgSeen:    map[cfgKey]bool{},
	}
}

// AddEntity registers an entity with a translator-local id and returns its arena id.
// Adding the same (unit, local) key twice returns the id of the first entry.
func (b *Builder) AddEntity(kind EntityKind, local int, name string, pos Position) EntityID {
	return b.addEntityIn(b.unit, kind, local, name, pos)
}

func (b *Builder) addEntityIn(unit string, kind EntityKind, local int, name string, pos Position) EntityID {
	b.units[unit] = true
	return b.arena.add(Entity{Kind: kind, Name: name, Unit: unit, Local: local, Pos: pos})
}

// AddValueNode registers a data-flow node for an already-added value entity.
func (b *Builder) AddValueNode(n ValueNode) {
	b.dfgNodes[n.ID] = n
}

// AddFlowEdge adds a flows-to edge. Duplicate edges are ignored.
func (b *Builder) AddFlowEdge(from, to EntityID, kind FlowKind, transform string) {
	k := flowKey{from, to, kind, transform}
	if b.flowSeen[k] {
		return
	}
	b.flowSeen[k] = true
	b.dfgSuccs[from] = append(b.dfgSuccs[from], FlowEdge{To: to, Kind: kind, Transform: transform})
}

// AddCFGEdge adds a control-flow edge. Duplicate edges are ignored.
func (b *Builder) AddCFGEdge(from, to EntityID, kind CFGEdgeKind) {
	k := cfgKey{from, to, kind}
	if b.cfgSeen[k] {
		return
	}
	b.cfgSeen[k] = true
	b.cfgSuccs[from] = append(b.cfgSuccs[from], CFGEdge{To: to, Kind: kind})
}

// AddCallSite registers a call site for an already-added call-site entity.
func (b *Builder) AddCallSite(cs CallSite) {
	b.calls[cs.ID] = cs
}

// AddScope appends a scope with the given parent and returns its id.
func (b *Builder) AddScope(parent ScopeID) ScopeID {
	b.scopes = append(b.scopes, Scope{Parent: parent})
	return ScopeID(len(b.scopes) - 1)
}

// AddDecl appends a declaration to the scope.
func (b *Builder) AddDecl(scope ScopeID, d Decl) {
	b.scopes[scope].Decls = append(b.scopes[scope].Decls, d)
}

// AddCouplingEdge appends a coupling edge established by construction.
func (b *Builder) AddCouplingEdge(e CouplingEdge) {
	b.coupling = append(b.coupling, e)
}

// AddLiteralUse records the occurrence of a literal at a site.
func (b *Builder) AddLiteralUse(l LiteralUse) {
	b.literals = append(b.literals, l)
}

// SetSignature records the positional parameter signature of a function entity.
func (b *Builder) SetSignature(fn EntityID, sig Signature) {
	b.signatures[fn] = sig
}

// Build validates the accumulated structures and returns the immutable model. The
// builder must not be used after Build returns.
func (b *Builder) Build() (*Model, error) {
	m := &Model{
		arena:      b.arena,
		CFG:        ControlFlowGraph{Succs: b.cfgSuccs},
		DFG:        DataFlowGraph{Nodes: b.dfgNodes, Succs: b.dfgSuccs, Calls: b.calls},
		Scopes:     ScopeTree{Scopes: b.scopes},
		Coupling:   CouplingGraph{Edges: b.coupling},
		Literals:   b.literals,
		Signatures: b.signatures,
	}
	m.Units = funcutil.SetToOrderedSlice(b.units)

	sortModel(m)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.fingerprint = fingerprintModel(m)
	return m, nil
}

// sortModel puts every adjacency list and evidence slice in a canonical order so that
// all downstream traversals, and the fingerprint, are deterministic.
func sortModel(m *Model) {
	for id := range m.CFG.Succs {
		es := m.CFG.Succs[id]
		sort.Slice(es, func(i, j int) bool {
			if es[i].To != es[j].To {
				return es[i].To < es[j].To
			}
			return es[i].Kind < es[j].Kind
		})
	}
	for id := range m.DFG.Succs {
		es := m.DFG.Succs[id]
		sort.Slice(es, func(i, j int) bool {
			if es[i].To != es[j].To {
				return es[i].To < es[j].To
			}
			if es[i].Kind != es[j].Kind {
				return es[i].Kind < es[j].Kind
			}
			return es[i].Transform < es[j].Transform
		})
	}
	sort.Slice(m.Literals, func(i, j int) bool {
		if m.Literals[i].Value != m.Literals[j].Value {
			return m.Literals[i].Value < m.Literals[j].Value
		}
		return m.Literals[i].Site < m.Literals[j].Site
	})
	sort.Slice(m.Coupling.Edges, func(i, j int) bool {
		a, c := m.Coupling.Edges[i], m.Coupling.Edges[j]
		if a.From != c.From {
			return a.From < c.From
		}
		if a.To != c.To {
			return a.To < c.To
		}
		return a.Kind < c.Kind
	})
}
