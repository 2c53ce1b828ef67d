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

package taint

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
	"github.com/awslabs/ar-deep-analysis/internal/graphutil"
)

// witness selects the representative path from src to sink: the walk with the fewest
// edges, ties broken by ascending node id. The breadth-first expansion visits
// successors in the sorted order of the model's adjacency lists, so the first parent
// recorded for a node is always the same; this is what guarantees byte-identical
// witnesses across runs and machines.
//
// When tainted is true the walk is restricted to edges that still carry tags out of
// their origin, so the witness of an unsanitized flow never detours through a fully
// sanitizing node.
func (s *session) witness(src, sink semantic.EntityID, facts map[semantic.EntityID]TagSet,
	tainted bool) []semantic.EntityID {

	fg := graphutil.NewFlowGraph(s.model)
	all := s.domain.All()
	parent := map[int64]int64{}

	bfs := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			from, to := e.From().ID(), e.To().ID()
			if tainted {
				u := semantic.EntityID(from)
				if facts[u].Intersect(s.idx.survivingAt(u, all)).IsEmpty() {
					return false
				}
			}
			if _, ok := parent[to]; !ok && to != int64(src) {
				parent[to] = from
			}
			return true
		},
	}
	found := bfs.Walk(fg, graphutil.VNode(src), func(n graph.Node, _ int) bool {
		return n.ID() == int64(sink)
	})
	if found == nil {
		if tainted {
			// A tainted walk must exist when facts[sink] is non-empty, but fall
			// back to an unrestricted walk rather than report no path at all.
			return s.witness(src, sink, facts, false)
		}
		return nil
	}

	var path []semantic.EntityID
	for cur := int64(sink); ; {
		path = append(path, semantic.EntityID(cur))
		if cur == int64(src) {
			break
		}
		next, ok := parent[cur]
		if !ok {
			return nil
		}
		cur = next
	}
	funcutil.Reverse(path)
	return path
}
