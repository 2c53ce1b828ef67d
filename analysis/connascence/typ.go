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

// typeDetector flags connascence of type: a caller and a callee must agree on a
// concrete parameter type across the call boundary. Only parameters with a resolved
// type count, so dynamically typed models are flagged only where the translator
// recorded an inferred type.
type typeDetector struct{}

func (typeDetector) Name() string { return "type" }

func (typeDetector) Detect(model *semantic.Model) []Finding {
	var out []Finding
	for _, id := range model.DFG.CallIDs() {
		cs := model.DFG.Calls[id]
		if cs.Caller == semantic.InvalidEntity {
			continue
		}
		pos := model.Entity(id).Pos
		for _, callee := range cs.Targets {
			sig, ok := model.Signatures[callee]
			if !ok || callee == cs.Caller {
				continue
			}
			resolved := 0
			for _, p := range sig.Params {
				if p.Resolved {
					resolved++
				}
			}
			if resolved == 0 {
				continue
			}
			out = append(out, Finding{
				A:        cs.Caller,
				B:        callee,
				Kind:     semantic.CoT,
				Strength: float64(resolved),
				Locs:     []semantic.Position{pos},
			})
		}
	}
	return out
}
