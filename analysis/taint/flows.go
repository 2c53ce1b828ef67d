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
	"sort"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
)

// A Flow is one detected source-to-sink taint flow. Path is a valid walk in the
// data-flow graph from Source to Sink, chosen deterministically (fewest edges, ties
// by ascending node id). Sanitized is true when every tag was neutralized before the
// sink; in that case Tags lists the tags that were seeded at the source.
type Flow struct {
	Source    semantic.EntityID
	Sink      semantic.EntityID
	Path      []semantic.EntityID
	Tags      []string
	Sanitized bool
	Category  string
	Severity  string
}

type pairKey struct {
	source, sink semantic.EntityID
}

// Flows is a deduplicated collection of taint flows. Exactly one flow is retained
// per (source, sink) pair.
type Flows struct {
	flows map[pairKey]Flow
}

// NewFlows returns an empty flow collection
func NewFlows() *Flows {
	return &Flows{flows: map[pairKey]Flow{}}
}

// Add inserts the flow unless a flow for the same (source, sink) pair is present.
// Returns true when the flow was inserted.
func (f *Flows) Add(flow Flow) bool {
	k := pairKey{flow.Source, flow.Sink}
	if _, ok := f.flows[k]; ok {
		return false
	}
	f.flows[k] = flow
	return true
}

// Merge adds all the flows of other into f. A pair already present in f keeps its
// existing flow.
func (f *Flows) Merge(other *Flows) {
	if other == nil {
		return
	}
	funcutil.Merge(f.flows, other.flows, func(mine Flow, _ Flow) Flow { return mine })
}

// Len returns the number of flows
func (f *Flows) Len() int {
	return len(f.flows)
}

// Sorted returns the flows ordered by (source, sink)
func (f *Flows) Sorted() []Flow {
	out := make([]Flow, 0, len(f.flows))
	for _, flow := range f.flows {
		out = append(out, flow)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Sink < out[j].Sink
	})
	return out
}

// Truncate keeps the first max flows in (source, sink) order. If max <= 0 nothing
// is removed.
func (f *Flows) Truncate(max int) {
	if max <= 0 || len(f.flows) <= max {
		return
	}
	kept := f.Sorted()[:max]
	f.flows = make(map[pairKey]Flow, max)
	for _, flow := range kept {
		f.flows[pairKey{flow.Source, flow.Sink}] = flow
	}
}
