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

package facts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// EngineVersion identifies the engine build in fact provenance.
const EngineVersion = "0.1.0"

// Kind discriminates the atomic fact records.
type Kind uint8

const (
	// TaintSource marks a data-flow node matched by a source rule
	TaintSource Kind = iota
	// TaintSink marks a data-flow node matched by a sink rule
	TaintSink
	// TaintFlow records one source-to-sink flow with its witness path
	TaintFlow
	// Coupling records one connascence finding
	Coupling
)

func (k Kind) String() string {
	switch k {
	case TaintSource:
		return "taint-source"
	case TaintSink:
		return "taint-sink"
	case TaintFlow:
		return "taint-flow"
	case Coupling:
		return "coupling"
	default:
		return "unknown"
	}
}

// Provenance records where a fact came from. RunID differs on every run; the other
// fields, like the fact fingerprint, are stable for identical input.
type Provenance struct {
	RunID       string
	Unit        string
	Engine      string
	Fingerprint string
}

// A Fact is one atomic record handed to the fact store. Subject names the primary
// entity; Object names the secondary entity for flows and couplings and is empty
// otherwise. Tags are sorted; Path lists the witness walk of a flow by entity name.
type Fact struct {
	Kind      Kind
	Subject   string
	Object    string
	Path      []string
	Tags      []string
	Sanitized bool
	Category  string
	Severity  string
	Coupling  string
	Strength  float64
	Locs      []semantic.Position
	Prov      Provenance
}

// Fingerprint returns the content hash of the fact. The run id is excluded so that
// two runs over the same model emit facts with identical fingerprints; everything
// else, including the unit and the model fingerprint, participates.
func (f Fact) Fingerprint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "k|%s\n", f.Kind)
	fmt.Fprintf(&sb, "s|%s\no|%s\n", f.Subject, f.Object)
	fmt.Fprintf(&sb, "p|%s\n", strings.Join(f.Path, ","))
	fmt.Fprintf(&sb, "t|%s\n", strings.Join(f.Tags, ","))
	fmt.Fprintf(&sb, "z|%v|%s|%s|%s|%g\n", f.Sanitized, f.Category, f.Severity, f.Coupling, f.Strength)
	for _, l := range f.Locs {
		fmt.Fprintf(&sb, "l|%s\n", l)
	}
	fmt.Fprintf(&sb, "u|%s\nm|%s\n", f.Prov.Unit, f.Prov.Fingerprint)
	h := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(h[:])
}
