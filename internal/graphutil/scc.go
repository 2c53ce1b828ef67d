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
	"sort"

	"github.com/yourbasic/graph"
)

// StrongComponents returns the strongly connected components of the flow graph in
// topological order of the condensation (predecessors first), with the members of
// each component sorted in ascending order. Recursive flow shows up as components of
// size two or more; no explicit cycle detection is needed anywhere else.
func StrongComponents(g FlowGraph) [][]int {
	comps := graph.StrongComponents(g)
	for _, c := range comps {
		sort.Ints(c)
	}
	// StrongComponents returns components in reverse topological order of the
	// condensation; propagation wants predecessors first.
	for i, j := 0, len(comps)-1; i < j; i, j = i+1, j-1 {
		comps[i], comps[j] = comps[j], comps[i]
	}
	return comps
}

// CountCyclic returns the number of components with more than one member
func CountCyclic(comps [][]int) int {
	n := 0
	for _, c := range comps {
		if len(c) > 1 {
			n++
		}
	}
	return n
}
