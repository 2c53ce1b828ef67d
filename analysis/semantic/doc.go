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

// Package semantic defines the language-agnostic semantic model consumed by the
// analyses in this module.
//
// A Model represents one compilation unit (or a merged set of units) as four
// substructures sharing a single arena of entity identifiers: a control-flow
// graph, a data-flow graph, a scope tree and a coupling graph. Graph edges are
// plain integer indices into the arena, which keeps the model free of ownership
// cycles and trivially serializable.
//
// Models are built by external per-language translators through a Builder. This
// package does not parse source text; it defines and validates the structural
// contract. Once built, a Model is immutable: analyses only read it, which is
// the invariant that makes concurrent analysis safe without locks.
package semantic
