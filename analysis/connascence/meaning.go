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

package connascence

import "github.com/awslabs/ar-deep-analysis/analysis/semantic"

// meaningDetector flags connascence of meaning: a literal value used in a comparison
// position that recurs at two or more distinct, non-adjacent sites without a shared
// named constant. Adjacency is tested on the control-flow graph: two checks of the
// same literal in consecutive statements are one decision, not a coupling.
//
// Each recurring literal yields one finding linking its first two non-adjacent
// sites, with all the occurrence locations attached.
type meaningDetector struct{}

func (meaningDetector) Name() string { return "meaning" }

func (meaningDetector) Detect(model *semantic.Model) []Finding {
	// Model literals are sorted by (value, site), so occurrences of one value are
	// contiguous and in ascending site order.
	var out []Finding
	for i := 0; i < len(model.Literals); {
		j := i
		for j < len(model.Literals) && model.Literals[j].Value == model.Literals[i].Value {
			j++
		}
		group := model.Literals[i:j]
		i = j
		if f, ok := meaningFinding(model, group); ok {
			out = append(out, f)
		}
	}
	return out
}

func meaningFinding(model *semantic.Model, group []semantic.LiteralUse) (Finding, bool) {
	if model.Scopes.HasNamedConstant(group[0].Value) {
		return Finding{}, false
	}
	var uses []semantic.LiteralUse
	seen := map[semantic.EntityID]bool{}
	for _, u := range group {
		if u.Comparison && !seen[u.Site] {
			seen[u.Site] = true
			uses = append(uses, u)
		}
	}
	if len(uses) < 2 {
		return Finding{}, false
	}
	a, b, ok := firstNonAdjacentPair(model, uses)
	if !ok {
		return Finding{}, false
	}
	locs := make([]semantic.Position, 0, len(uses))
	for _, u := range uses {
		locs = append(locs, u.Pos)
	}
	return Finding{
		A:        a,
		B:        b,
		Kind:     semantic.CoM,
		Strength: float64(len(uses)),
		Locs:     locs,
	}, true
}

// firstNonAdjacentPair returns the lowest pair of sites, in ascending site order,
// that are not directly connected in the control-flow graph.
func firstNonAdjacentPair(model *semantic.Model, uses []semantic.LiteralUse) (
	semantic.EntityID, semantic.EntityID, bool) {
	for i := 0; i < len(uses); i++ {
		for j := i + 1; j < len(uses); j++ {
			if !model.CFG.Adjacent(uses[i].Site, uses[j].Site) {
				return uses[i].Site, uses[j].Site, true
			}
		}
	}
	return semantic.InvalidEntity, semantic.InvalidEntity, false
}
