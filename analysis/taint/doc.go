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

// Package taint implements the cross-procedural taint propagation analysis.
//
// The propagator runs a semi-naive fixed point over a monotonic lattice of
// (node, tag-set) facts, in the manner of Datalog evaluation. Base facts are seeded
// at every data-flow node matching a source rule; the propagation rule carries tags
// along flows-to edges, with sanitizers modeled as an intersection with the
// sanitizer's surviving tags rather than a fact retraction, which preserves
// monotonicity. Termination follows from the fact set being bounded by
// |nodes| x |tag subsets|; the tag vocabulary is closed and capped at 64 tags.
//
// Interprocedural flow needs no special handling here: call edges connecting actual
// arguments to formal parameters, and return values to call-site results, are
// ordinary edges of the data-flow graph, and dynamic dispatch appears as a fan-out
// to every statically possible callee.
//
// All derived fact tables live in a per-run session object; the analysis has no
// global state and only reads the immutable model.
package taint
