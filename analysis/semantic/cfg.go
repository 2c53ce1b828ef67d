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

// CFGEdgeKind is the kind of control transfer an edge represents.
type CFGEdgeKind uint8

const (
	// EdgeSequential is fallthrough control transfer
	EdgeSequential CFGEdgeKind = iota
	// EdgeBranch is a conditional or unconditional jump
	EdgeBranch
	// EdgeCall transfers control to a callee
	EdgeCall
	// EdgeReturn transfers control back to a call site
	EdgeReturn
)

// A CFGEdge is a directed control-flow edge to a statement entity.
type CFGEdge struct {
	To   EntityID
	Kind CFGEdgeKind
}

// A ControlFlowGraph records control transfer between statement entities. Adjacency
// lists are sorted by (To, Kind) once the model is built.
type ControlFlowGraph struct {
	Succs map[EntityID][]CFGEdge
}

// Out returns the successor edges of the statement entity id
func (g *ControlFlowGraph) Out(id EntityID) []CFGEdge {
	return g.Succs[id]
}

// Adjacent returns true when a direct control-flow edge connects a and b, in either
// direction. Used by detectors that need a non-adjacency test between sites.
func (g *ControlFlowGraph) Adjacent(a, b EntityID) bool {
	for _, e := range g.Succs[a] {
		if e.To == b {
			return true
		}
	}
	for _, e := range g.Succs[b] {
		if e.To == a {
			return true
		}
	}
	return false
}
