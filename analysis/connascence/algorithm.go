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
	"strings"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
)

// knownAlgorithms is the closed list of algorithm names the detector recognizes in
// call-site method or package names. Equivalence of arbitrary hand-written
// algorithms is not attempted.
var knownAlgorithms = []string{
	"md5",
	"sha1",
	"sha256",
	"crc32",
	"base64",
	"json",
	"gob",
	"pickle",
	"murmur3",
}

// algorithmDetector flags connascence of algorithm: two call sites both invoking the
// same recognized algorithm must keep agreeing on it. Sites are grouped per
// algorithm and each later site is linked to the first one, so n sites of the same
// algorithm produce n-1 pairs that the merge step folds by entity pair.
type algorithmDetector struct{}

func (algorithmDetector) Name() string { return "algorithm" }

func (algorithmDetector) Detect(model *semantic.Model) []Finding {
	sites := map[string][]semantic.EntityID{}
	for _, id := range model.DFG.CallIDs() {
		cs := model.DFG.Calls[id]
		if alg, ok := recognizedAlgorithm(cs); ok {
			sites[alg] = append(sites[alg], id)
		}
	}

	var out []Finding
	for _, alg := range knownAlgorithms {
		ids := sites[alg]
		if len(ids) < 2 {
			continue
		}
		first := ids[0]
		for _, id := range ids[1:] {
			a := enclosing(model, first)
			b := enclosing(model, id)
			if b < a {
				a, b = b, a
			}
			out = append(out, Finding{
				A:        a,
				B:        b,
				Kind:     semantic.CoA,
				Strength: 1,
				Locs: []semantic.Position{
					model.Entity(first).Pos,
					model.Entity(id).Pos,
				},
			})
		}
	}
	return out
}

// enclosing returns the function containing the call site, or the site itself when
// the translator recorded no caller.
func enclosing(model *semantic.Model, site semantic.EntityID) semantic.EntityID {
	if caller := model.DFG.Calls[site].Caller; caller != semantic.InvalidEntity {
		return caller
	}
	return site
}

func recognizedAlgorithm(cs semantic.CallSite) (string, bool) {
	method := strings.ToLower(cs.Method)
	if funcutil.Contains(knownAlgorithms, method) {
		return method, true
	}
	pkg := strings.ToLower(cs.Package)
	if funcutil.Contains(knownAlgorithms, pkg) {
		return pkg, true
	}
	return "", false
}
