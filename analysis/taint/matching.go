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
	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// patternTarget builds the structural description of a data-flow node that policy
// patterns are matched against. The second return value is false when the node kind
// exposes nothing a pattern could match.
func patternTarget(m *semantic.Model, n semantic.ValueNode) (config.PatternTarget, bool) {
	switch n.Kind {
	case semantic.ValueParam:
		t := config.PatternTarget{}
		if n.Fn != semantic.InvalidEntity {
			t.Method = m.Entity(n.Fn).Name
		}
		if sig, ok := m.Signatures[n.Fn]; ok && n.Index < len(sig.Params) {
			t.Field = sig.Params[n.Index].Name
			t.Type = sig.Params[n.Index].Type
		} else if d, ok := m.Scopes.DeclOf(n.ID); ok {
			t.Field = d.Name
			t.Type = d.Type
		}
		return t, true
	case semantic.ValueCallResult, semantic.ValueCallArg:
		cs, ok := m.DFG.Calls[n.Call]
		if !ok {
			return config.PatternTarget{}, false
		}
		return config.PatternTarget{
			Package:  cs.Package,
			Method:   cs.Method,
			Receiver: cs.Receiver,
		}, true
	case semantic.ValueAssign:
		d, ok := m.Scopes.DeclOf(n.ID)
		if !ok {
			return config.PatternTarget{}, false
		}
		return config.PatternTarget{Field: d.Name, Type: d.Type}, true
	default:
		return config.PatternTarget{}, false
	}
}

// A ruleIndex holds the result of matching every policy rule against every data-flow
// node of the model, computed once per run.
type ruleIndex struct {
	// seeds maps source nodes to the union of tags of the source rules they match
	seeds map[semantic.EntityID]TagSet

	// sinks maps sink nodes to the sink rules they match, in policy order
	sinks map[semantic.EntityID][]config.SinkRule

	// surviving maps nodes to the tags that survive flowing through them; nodes
	// matching no sanitizer keep everything
	surviving map[semantic.EntityID]TagSet
}

// buildRuleIndex matches the policy's rule tables against the model.
func buildRuleIndex(m *semantic.Model, policy *config.Policy, domain *TagDomain) *ruleIndex {
	idx := &ruleIndex{
		seeds:     map[semantic.EntityID]TagSet{},
		sinks:     map[semantic.EntityID][]config.SinkRule{},
		surviving: map[semantic.EntityID]TagSet{},
	}
	all := domain.All()

	for _, id := range m.DFG.NodeIDs() {
		n := m.DFG.Nodes[id]
		target, ok := patternTarget(m, n)
		if !ok {
			continue
		}
		for _, r := range policy.Sources {
			if r.Pattern.Matches(target) {
				idx.seeds[id] |= domain.SetOf(r.Tags)
			}
		}
		// Sinks are identified at the point where data reaches the sensitive call:
		// its arguments, or the call node itself for argument-less patterns.
		if n.Kind == semantic.ValueCallArg || n.Kind == semantic.ValueCallResult {
			for _, r := range policy.Sinks {
				if r.Pattern.Matches(target) && n.Kind == semantic.ValueCallArg {
					idx.sinks[id] = append(idx.sinks[id], r)
				}
			}
		}
		for _, r := range policy.Sanitizers {
			if n.Kind != semantic.ValueCallResult {
				// Only data flowing through a sanitizing call is neutralized.
				continue
			}
			if !r.Pattern.Matches(target) {
				continue
			}
			mask, seen := idx.surviving[id]
			if !seen {
				mask = all
			}
			switch r.Effect {
			case config.EffectFull:
				mask = 0
			case config.EffectPerTag:
				mask = mask.Minus(domain.SetOf(r.Tags))
			}
			idx.surviving[id] = mask
		}
	}
	return idx
}

// survivingAt returns the tags that survive flowing through the node
func (idx *ruleIndex) survivingAt(id semantic.EntityID, all TagSet) TagSet {
	if mask, ok := idx.surviving[id]; ok {
		return mask
	}
	return all
}

// sourceIDs returns the matched source nodes in ascending order
func (idx *ruleIndex) sourceIDs() []semantic.EntityID {
	return sortedIDs(idx.seeds)
}

// sinkIDs returns the matched sink nodes in ascending order
func (idx *ruleIndex) sinkIDs() []semantic.EntityID {
	return sortedIDs(idx.sinks)
}
