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

// nameDetector reports the connascence-of-name edges the translator recorded.
// Every call or reference edge is name coupling by construction, so this is pure
// relay: the detector exists so that the completeness signal goes through the same
// merge and normalization as the other kinds.
type nameDetector struct{}

func (nameDetector) Name() string { return "name" }

func (nameDetector) Detect(model *semantic.Model) []Finding {
	var out []Finding
	for _, e := range model.Coupling.EdgesOfKind(semantic.CoN) {
		strength := e.Strength
		if strength == 0 {
			strength = 1
		}
		out = append(out, Finding{
			A:        e.From,
			B:        e.To,
			Kind:     semantic.CoN,
			Strength: strength,
			Locs:     e.Locs,
		})
	}
	return out
}
