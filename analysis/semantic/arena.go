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

// An EntityID is an index into the arena shared by all four substructures of a Model.
type EntityID int

// InvalidEntity is the id used for absent entity references (e.g. the call site of a node
// that is not a call result).
const InvalidEntity EntityID = -1

// EntityKind discriminates what an arena entry stands for.
type EntityKind uint8

const (
	// EntityValue is a value-producing site: a parameter, an assignment target or a call result
	EntityValue EntityKind = iota
	// EntityStatement is a statement or basic block in the control-flow graph
	EntityStatement
	// EntityFunction is a function or method declaration
	EntityFunction
	// EntityType is a named type declaration
	EntityType
	// EntityCallSite is a call expression
	EntityCallSite
)

func (k EntityKind) String() string {
	switch k {
	case EntityValue:
		return "value"
	case EntityStatement:
		return "statement"
	case EntityFunction:
		return "function"
	case EntityType:
		return "type"
	case EntityCallSite:
		return "callsite"
	default:
		return "unknown"
	}
}

// An Entity is one arena entry. Unit and Local together identify the entity in the
// translator's output; they are stable across merges, which is what makes merging
// idempotent.
type Entity struct {
	Kind  EntityKind
	Name  string
	Unit  string
	Local int
	Pos   Position
}

type entityKey struct {
	unit  string
	local int
}

// An Arena owns the entity entries referenced by every graph edge of a Model.
type Arena struct {
	entities []Entity
	index    map[entityKey]EntityID
}

func newArena() *Arena {
	return &Arena{index: map[entityKey]EntityID{}}
}

// add inserts the entity, reusing the existing id when an entity with the same
// (unit, local) key is already present.
func (a *Arena) add(e Entity) EntityID {
	k := entityKey{e.Unit, e.Local}
	if id, ok := a.index[k]; ok {
		return id
	}
	id := EntityID(len(a.entities))
	a.entities = append(a.entities, e)
	a.index[k] = id
	return id
}

// Size returns the number of entities in the arena
func (a *Arena) Size() int {
	return len(a.entities)
}

// Valid returns true when id refers to an entity in the arena
func (a *Arena) Valid(id EntityID) bool {
	return id >= 0 && int(id) < len(a.entities)
}

// Entity returns the entity for id. It panics when id is not valid; callers are expected
// to operate on validated models.
func (a *Arena) Entity(id EntityID) Entity {
	return a.entities[id]
}

// Lookup returns the id of the entity with the given translator key, or InvalidEntity
func (a *Arena) Lookup(unit string, local int) EntityID {
	if id, ok := a.index[entityKey{unit, local}]; ok {
		return id
	}
	return InvalidEntity
}
