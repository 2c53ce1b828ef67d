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

package semantic

// A CouplingKind is one of the connascence kinds tracked by the coupling analyses.
type CouplingKind uint8

const (
	// CoN is connascence of name
	CoN CouplingKind = iota
	// CoT is connascence of type
	CoT
	// CoM is connascence of meaning
	CoM
	// CoP is connascence of position
	CoP
	// CoA is connascence of algorithm
	CoA
)

func (k CouplingKind) String() string {
	switch k {
	case CoN:
		return "CoN"
	case CoT:
		return "CoT"
	case CoM:
		return "CoM"
	case CoP:
		return "CoP"
	case CoA:
		return "CoA"
	default:
		return "unknown"
	}
}

// A CouplingEdge is a typed coupling relation between two named entities, with a
// strength measure and the source locations of the structural evidence.
type CouplingEdge struct {
	From     EntityID
	To       EntityID
	Kind     CouplingKind
	Strength float64
	Locs     []Position
}

// A CouplingGraph holds the coupling relations a translator could establish by
// construction. Every call or reference edge is a CoN edge.
type CouplingGraph struct {
	Edges []CouplingEdge
}

// EdgesOfKind returns the coupling edges of the given kind, in model order
func (g *CouplingGraph) EdgesOfKind(kind CouplingKind) []CouplingEdge {
	var out []CouplingEdge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// A LiteralUse records the occurrence of a literal value at a call or branch site.
// Comparison is true when the literal appears in an equality or comparison position.
type LiteralUse struct {
	Value      string
	Site       EntityID
	Comparison bool
	Pos        Position
}

// A Signature describes the positional parameters of a function entity.
type Signature struct {
	Params []Param
}

// A Param is one positional parameter of a signature. Primitive is true for primitive
// types; Resolved is true when a type could be resolved (statically or by inference).
type Param struct {
	Name      string
	Type      string
	Primitive bool
	Resolved  bool
}
