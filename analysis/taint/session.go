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
	"context"
	"sort"

	"golang.org/x/tools/container/intsets"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/internal/graphutil"
)

// A session owns all the derived fact tables of one propagation run. Sessions are
// created per run and per policy; there is no global evaluation state.
type session struct {
	model  *semantic.Model
	logger *config.LogGroup
	domain *TagDomain
	idx    *ruleIndex

	// rank orders nodes by the SCC condensation of the flow graph, predecessors
	// first; processing the worklist by rank reaches the fixed point quickly and
	// deterministically
	rank   []int
	byRank []semantic.EntityID

	budget      int
	derivations int
}

func newSession(model *semantic.Model, logger *config.LogGroup, domain *TagDomain,
	idx *ruleIndex, budget int) *session {
	fg := graphutil.NewFlowGraph(model)
	comps := graphutil.StrongComponents(fg)
	logger.Debugf("flow graph: %d entities, %d components, %d cyclic",
		fg.Order(), len(comps), graphutil.CountCyclic(comps))

	s := &session{
		model:  model,
		logger: logger,
		domain: domain,
		idx:    idx,
		rank:   make([]int, fg.Order()),
		byRank: make([]semantic.EntityID, fg.Order()),
		budget: budget,
	}
	r := 0
	for _, comp := range comps {
		for _, v := range comp {
			s.rank[v] = r
			s.byRank[r] = semantic.EntityID(v)
			r++
		}
	}
	return s
}

// run computes the least fixed point of the propagation rule seeded with
// Tainted(src, seed). It returns the tag facts per node, the set of nodes reachable
// by any flow from the source (ignoring sanitization), and whether the iteration
// budget or the context cut the run short.
//
// The worklist is processed in ascending rank order, so the result and the order of
// derivations are identical across runs and machines.
func (s *session) run(ctx context.Context, src semantic.EntityID, seed TagSet) (
	facts map[semantic.EntityID]TagSet, reached map[semantic.EntityID]bool, incomplete bool) {

	facts = map[semantic.EntityID]TagSet{src: seed}
	reached = map[semantic.EntityID]bool{src: true}
	all := s.domain.All()

	var dirty intsets.Sparse
	dirty.Insert(s.rank[src])

	for !dirty.IsEmpty() {
		select {
		case <-ctx.Done():
			return facts, reached, true
		default:
		}
		var r int
		dirty.TakeMin(&r)
		u := s.byRank[r]
		// Tags flowing out of u: what reached u, minus what a sanitizer at u removes.
		out := facts[u].Intersect(s.idx.survivingAt(u, all))

		for _, e := range s.model.DFG.Out(u) {
			s.derivations++
			if s.derivations > s.budget {
				return facts, reached, true
			}
			changed := false
			if !reached[e.To] {
				reached[e.To] = true
				changed = true
			}
			if merged := facts[e.To].Union(out); merged != facts[e.To] {
				facts[e.To] = merged
				changed = true
			}
			if changed {
				dirty.Insert(s.rank[e.To])
			}
		}
	}
	return facts, reached, false
}

func sortedIDs[V any](m map[semantic.EntityID]V) []semantic.EntityID {
	ids := make([]semantic.EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
