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

package graphutil

import (
	"testing"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// cyclicModel builds value nodes a -> b -> a -> c: one two-member component
// followed by a sink component.
func cyclicModel(t *testing.T) (*semantic.Model, []semantic.EntityID) {
	t.Helper()
	b := semantic.NewBuilder("u")
	var ids []semantic.EntityID
	for i, name := range []string{"a", "b", "c"} {
		id := b.AddEntity(semantic.EntityValue, i+1, name, semantic.Position{Line: i + 1})
		b.AddValueNode(semantic.ValueNode{ID: id, Kind: semantic.ValueAssign,
			Fn: semantic.InvalidEntity, Call: semantic.InvalidEntity})
		ids = append(ids, id)
	}
	b.AddFlowEdge(ids[0], ids[1], semantic.FlowDirect, "")
	b.AddFlowEdge(ids[1], ids[0], semantic.FlowDirect, "")
	b.AddFlowEdge(ids[1], ids[2], semantic.FlowDirect, "")
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m, ids
}

func TestStrongComponents(t *testing.T) {
	m, ids := cyclicModel(t)
	comps := StrongComponents(NewFlowGraph(m))

	if CountCyclic(comps) != 1 {
		t.Fatalf("expected 1 cyclic component, got %d", CountCyclic(comps))
	}
	rank := map[int]int{}
	for r, comp := range comps {
		for _, v := range comp {
			rank[v] = r
		}
	}
	if rank[int(ids[0])] != rank[int(ids[1])] {
		t.Error("a and b form a cycle and must share a component")
	}
	if rank[int(ids[1])] >= rank[int(ids[2])] {
		t.Error("components must be ordered predecessors first")
	}
}

func TestFlowGraphAdapters(t *testing.T) {
	m, ids := cyclicModel(t)
	g := NewFlowGraph(m)

	if g.Order() != m.Arena().Size() {
		t.Errorf("order should be the arena size")
	}

	var visited []int
	g.Visit(int(ids[1]), func(w int, _ int64) bool {
		visited = append(visited, w)
		return false
	})
	if len(visited) != 2 {
		t.Errorf("b has 2 successors, visited %v", visited)
	}

	ns := g.From(int64(ids[0]))
	if ns.Len() != 1 || !ns.Next() || ns.Node().ID() != int64(ids[1]) {
		t.Error("successors of a should be exactly b")
	}
	if !g.HasEdgeBetween(int64(ids[2]), int64(ids[1])) {
		t.Error("edge b -> c should be reported in either direction")
	}
	if g.Edge(int64(ids[0]), int64(ids[2])) != nil {
		t.Error("no direct edge a -> c exists")
	}
}
