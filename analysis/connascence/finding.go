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

	"gonum.org/v1/gonum/stat"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// A Finding is one detected coupling between two entities. Strength is the raw
// accumulated evidence count of the detector; Score is the strength normalized
// within the finding's kind so that findings of different detectors compare.
type Finding struct {
	A        semantic.EntityID
	B        semantic.EntityID
	Kind     semantic.CouplingKind
	Strength float64
	Score    float64
	Locs     []semantic.Position
}

type findingKey struct {
	a, b semantic.EntityID
	kind semantic.CouplingKind
}

// mergeFindings deduplicates findings by (a, b, kind). Strengths of duplicates are
// summed and their locations unioned; the result is sorted by (a, b, kind).
func mergeFindings(groups ...[]Finding) []Finding {
	byKey := map[findingKey]Finding{}
	for _, fs := range groups {
		for _, f := range fs {
			k := findingKey{f.A, f.B, f.Kind}
			if prev, ok := byKey[k]; ok {
				prev.Strength += f.Strength
				prev.Locs = append(prev.Locs, f.Locs...)
				byKey[k] = prev
			} else {
				byKey[k] = f
			}
		}
	}
	out := make([]Finding, 0, len(byKey))
	for _, f := range byKey {
		f.Locs = sortedLocs(f.Locs)
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		if out[i].B != out[j].B {
			return out[i].B < out[j].B
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func sortedLocs(locs []semantic.Position) []semantic.Position {
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i], locs[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	out := locs[:0]
	for i, l := range locs {
		if i == 0 || l != locs[i-1] {
			out = append(out, l)
		}
	}
	return out
}

// normalizeScores sets every finding's Score to the standard score of its strength
// among the findings of the same kind. With fewer than two findings of a kind, or
// when all strengths are equal, the score is the raw strength.
func normalizeScores(findings []Finding) {
	byKind := map[semantic.CouplingKind][]float64{}
	for _, f := range findings {
		byKind[f.Kind] = append(byKind[f.Kind], f.Strength)
	}
	for i := range findings {
		xs := byKind[findings[i].Kind]
		mean := stat.Mean(xs, nil)
		sigma := stat.StdDev(xs, nil)
		if len(xs) < 2 || sigma == 0 {
			findings[i].Score = findings[i].Strength
			continue
		}
		findings[i].Score = (findings[i].Strength - mean) / sigma
	}
}
