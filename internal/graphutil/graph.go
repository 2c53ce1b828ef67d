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

// Package graphutil adapts the semantic model's graphs to the interfaces of existing
// graph libraries, so that the analyses can reuse their algorithms.
package graphutil

import (
	"gonum.org/v1/gonum/graph"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// A FlowGraph is an adaptor over a model's data-flow graph. It implements the methods
// to satisfy yourbasic's graph.Iterator and gonum's graph.Graph. Node ids are arena
// entity ids; entities that are not data-flow nodes simply have no edges.
type FlowGraph struct {
	model *semantic.Model
}

// NewFlowGraph returns a flow graph adaptor over the model's data-flow graph
func NewFlowGraph(m *semantic.Model) FlowGraph {
	return FlowGraph{model: m}
}

// Order implements the graph.Iterator interface: the order is the arena size
func (g FlowGraph) Order() int {
	return g.model.Arena().Size()
}

// Visit implements the graph.Iterator interface. Successors are visited in the
// sorted order of the model's adjacency lists.
func (g FlowGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	prev := semantic.InvalidEntity
	for _, e := range g.model.DFG.Out(semantic.EntityID(v)) {
		if e.To == prev {
			continue
		}
		prev = e.To
		if do(int(e.To), 1) {
			return true
		}
	}
	return false
}

// *************** gonum Graph interface implementation **********************

// Node implements the gonum graph.Graph interface
func (g FlowGraph) Node(id int64) graph.Node {
	if !g.model.Arena().Valid(semantic.EntityID(id)) {
		return nil
	}
	return VNode(id)
}

// Nodes returns the set of data-flow nodes in the graph, in ascending id order
func (g FlowGraph) Nodes() graph.Nodes {
	ids := g.model.DFG.NodeIDs()
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}
	return &NodeSet{ids: keys, cur: -1}
}

// From returns the successors of the node id, in ascending id order
func (g FlowGraph) From(id int64) graph.Nodes {
	var keys []int64
	prev := semantic.InvalidEntity
	for _, e := range g.model.DFG.Out(semantic.EntityID(id)) {
		if e.To == prev {
			continue
		}
		prev = e.To
		keys = append(keys, int64(e.To))
	}
	return &NodeSet{ids: keys, cur: -1}
}

// HasEdgeBetween returns true when an edge exists between the two ids, in either direction
func (g FlowGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.hasEdge(xid, yid) || g.hasEdge(yid, xid)
}

func (g FlowGraph) hasEdge(from, to int64) bool {
	for _, e := range g.model.DFG.Out(semantic.EntityID(from)) {
		if int64(e.To) == to {
			return true
		}
	}
	return false
}

// Edge returns the edge between the two ids (nil if none exists)
func (g FlowGraph) Edge(uid, vid int64) graph.Edge {
	if g.hasEdge(uid, vid) {
		return VEdge{F: VNode(uid), T: VNode(vid)}
	}
	return nil
}

// A VNode is an arena entity id satisfying the gonum graph.Node interface.
type VNode int64

// ID returns the id of the node
func (n VNode) ID() int64 {
	return int64(n)
}

// A NodeSet is an iterator over a fixed, ordered set of node ids.
type NodeSet struct {
	ids []int64
	cur int
}

// Next moves the iterator to the next node and returns true if one exists
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of remaining nodes
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset rewinds the iterator
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node
func (ns *NodeSet) Node() graph.Node {
	return VNode(ns.ids[ns.cur])
}

// A VEdge is a directed edge between two arena entities, satisfying gonum's graph.Edge.
type VEdge struct {
	F, T VNode
}

// From returns the origin of the edge
func (e VEdge) From() graph.Node { return e.F }

// To returns the destination of the edge
func (e VEdge) To() graph.Node { return e.T }

// ReversedEdge returns a new value representing the reversed edge
func (e VEdge) ReversedEdge() graph.Edge { return VEdge{F: e.T, T: e.F} }
