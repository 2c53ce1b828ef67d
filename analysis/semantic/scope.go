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

// A ScopeID is an index into the scope tree.
type ScopeID int

// RootScope is the parent id of the root scope.
const RootScope ScopeID = -1

// A Decl binds a name to an entity inside a scope. Type is the declared or inferred
// type when the translator could resolve one.
type Decl struct {
	Name         string
	Entity       EntityID
	Type         string
	TypeResolved bool
	Const        bool
	ConstValue   string
}

// A Scope is one lexical scope with a link to its parent.
type Scope struct {
	Parent ScopeID
	Decls  []Decl
}

// A ScopeTree is the hierarchy of lexical scopes of a unit. Scopes[0] is the root when
// the tree is not empty.
type ScopeTree struct {
	Scopes []Scope
}

// HasNamedConstant returns true when some declaration binds a named constant with the
// given literal value.
func (t *ScopeTree) HasNamedConstant(value string) bool {
	for _, s := range t.Scopes {
		for _, d := range s.Decls {
			if d.Const && d.ConstValue == value {
				return true
			}
		}
	}
	return false
}

// ResolveType returns the declared type of the entity and whether a resolved type was
// found in any scope.
func (t *ScopeTree) ResolveType(e EntityID) (string, bool) {
	for _, s := range t.Scopes {
		for _, d := range s.Decls {
			if d.Entity == e && d.TypeResolved {
				return d.Type, true
			}
		}
	}
	return "", false
}

// DeclOf returns the first declaration binding the entity, if any
func (t *ScopeTree) DeclOf(e EntityID) (Decl, bool) {
	for _, s := range t.Scopes {
		for _, d := range s.Decls {
			if d.Entity == e {
				return d, true
			}
		}
	}
	return Decl{}, false
}
