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

import (
	"sort"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// minPositionRun is the shortest run of consecutive same-type primitive parameters
// that counts as position coupling. Two parameters of the same type are ordinary;
// from three on, every caller must memorize the argument order.
const minPositionRun = 3

// positionDetector flags connascence of position on function signatures: three or
// more consecutive positional parameters sharing the same primitive type. Strength
// grows with the run length, and replacing the run with a named aggregate parameter
// removes the finding.
type positionDetector struct{}

func (positionDetector) Name() string { return "position" }

func (positionDetector) Detect(model *semantic.Model) []Finding {
	fns := make([]semantic.EntityID, 0, len(model.Signatures))
	for fn := range model.Signatures {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i] < fns[j] })

	var out []Finding
	for _, fn := range fns {
		params := model.Signatures[fn].Params
		for i := 0; i < len(params); {
			if !params[i].Primitive {
				i++
				continue
			}
			j := i + 1
			for j < len(params) && params[j].Primitive && params[j].Type == params[i].Type {
				j++
			}
			if run := j - i; run >= minPositionRun {
				out = append(out, Finding{
					A:        fn,
					B:        fn,
					Kind:     semantic.CoP,
					Strength: float64(run - minPositionRun + 1),
					Locs:     []semantic.Position{model.Entity(fn).Pos},
				})
			}
			i = j
		}
	}
	return out
}
