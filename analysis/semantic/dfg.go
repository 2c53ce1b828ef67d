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

import "sort"

// ValueKind discriminates the value-producing sites that are data-flow nodes.
type ValueKind uint8

const (
	// ValueParam is a formal parameter of a function
	ValueParam ValueKind = iota
	// ValueAssign is an assignment target
	ValueAssign
	// ValueCallResult is the result value of a call site
	ValueCallResult
	// ValueCallArg is an actual argument at a call site
	ValueCallArg
)

func (k ValueKind) String() string {
	switch k {
	case ValueParam:
		return "param"
	case ValueAssign:
		return "assign"
	case ValueCallResult:
		return "result"
	case ValueCallArg:
		return "arg"
	default:
		return "unknown"
	}
}

// A ValueNode is a node of the data-flow graph. Fn is the enclosing function entity.
// Call is the call-site entity for call results and call arguments, InvalidEntity
// otherwise. Index is the parameter or argument position.
type ValueNode struct {
	ID    EntityID
	Kind  ValueKind
	Fn    EntityID
	Call  EntityID
	Index int
}

// FlowKind is the kind of a flows-to relation.
type FlowKind uint8

const (
	// FlowDirect is an intra-procedural flows-to relation
	FlowDirect FlowKind = iota
	// FlowCallArg connects an actual argument to a callee formal parameter
	FlowCallArg
	// FlowReturn connects a callee return value to the call-site result
	FlowReturn
)

// A FlowEdge is a directed flows-to edge. Transform optionally names the function
// applied along the edge (e.g. a string concatenation).
type FlowEdge struct {
	To        EntityID
	Kind      FlowKind
	Transform string
}

// A CallSite describes a call expression of the unit. Targets is the set of statically
// possible callees; dynamic dispatch fans out to every member rather than picking one.
type CallSite struct {
	ID       EntityID
	Package  string
	Method   string
	Receiver string
	Caller   EntityID
	Targets  []EntityID
}

// A DataFlowGraph records flows-to relations between value nodes. Adjacency lists are
// sorted by (To, Kind) once the model is built, which makes every traversal in the
// analyses deterministic.
type DataFlowGraph struct {
	Nodes map[EntityID]ValueNode
	Succs map[EntityID][]FlowEdge
	Calls map[EntityID]CallSite
}

// NodeIDs returns the ids of all data-flow nodes in ascending order
func (g *DataFlowGraph) NodeIDs() []EntityID {
	ids := make([]EntityID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CallIDs returns the ids of all call sites in ascending order
func (g *DataFlowGraph) CallIDs() []EntityID {
	ids := make([]EntityID, 0, len(g.Calls))
	for id := range g.Calls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Out returns the successor edges of the node id
func (g *DataFlowGraph) Out(id EntityID) []FlowEdge {
	return g.Succs[id]
}
