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

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// fingerprintModel hashes a canonical encoding of the model. The encoding walks every
// substructure in sorted order, so the hash depends only on content, never on map
// iteration or insertion order.
func fingerprintModel(m *Model) string {
	h := sha256.New()
	for i := 0; i < m.arena.Size(); i++ {
		e := m.arena.Entity(EntityID(i))
		fmt.Fprintf(h, "e|%d|%d|%s|%s|%d|%s\n", i, e.Kind, e.Name, e.Unit, e.Local, e.Pos)
	}
	writeCFG(h, m)
	writeDFG(h, m)
	writeScopes(h, m)
	writeCoupling(h, m)
	return hex.EncodeToString(h.Sum(nil))
}

func writeCFG(w io.Writer, m *Model) {
	for _, from := range sortedKeys(m.CFG.Succs) {
		for _, e := range m.CFG.Succs[from] {
			fmt.Fprintf(w, "c|%d|%d|%d\n", from, e.To, e.Kind)
		}
	}
}

func writeDFG(w io.Writer, m *Model) {
	for _, id := range m.DFG.NodeIDs() {
		n := m.DFG.Nodes[id]
		fmt.Fprintf(w, "v|%d|%d|%d|%d|%d\n", n.ID, n.Kind, n.Fn, n.Call, n.Index)
	}
	for _, from := range sortedKeys(m.DFG.Succs) {
		for _, e := range m.DFG.Succs[from] {
			fmt.Fprintf(w, "f|%d|%d|%d|%s\n", from, e.To, e.Kind, e.Transform)
		}
	}
	for _, id := range m.DFG.CallIDs() {
		cs := m.DFG.Calls[id]
		fmt.Fprintf(w, "k|%d|%s|%s|%s|%d", cs.ID, cs.Package, cs.Method, cs.Receiver, cs.Caller)
		for _, t := range cs.Targets {
			fmt.Fprintf(w, "|%d", t)
		}
		fmt.Fprintln(w)
	}
}

func writeScopes(w io.Writer, m *Model) {
	for i, s := range m.Scopes.Scopes {
		fmt.Fprintf(w, "s|%d|%d\n", i, s.Parent)
		for _, d := range s.Decls {
			fmt.Fprintf(w, "d|%d|%s|%d|%s|%t|%t|%s\n", i, d.Name, d.Entity, d.Type, d.TypeResolved, d.Const, d.ConstValue)
		}
	}
}

func writeCoupling(w io.Writer, m *Model) {
	for _, e := range m.Coupling.Edges {
		fmt.Fprintf(w, "g|%d|%d|%d|%g\n", e.From, e.To, e.Kind, e.Strength)
	}
	for _, l := range m.Literals {
		fmt.Fprintf(w, "l|%s|%d|%t\n", l.Value, l.Site, l.Comparison)
	}
	for _, fn := range sortedKeys(m.Signatures) {
		fmt.Fprintf(w, "p|%d", fn)
		for _, p := range m.Signatures[fn].Params {
			fmt.Fprintf(w, "|%s:%s:%t:%t", p.Name, p.Type, p.Primitive, p.Resolved)
		}
		fmt.Fprintln(w)
	}
}
