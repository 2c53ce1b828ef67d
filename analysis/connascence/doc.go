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

// Package connascence implements the coupling detectors. Each detector reads the
// immutable semantic model independently and emits findings for one connascence
// kind: name (CoN), type (CoT), meaning (CoM), position (CoP) and algorithm (CoA).
//
// Detectors never mutate the model, so they run concurrently. Their findings are
// merged with deduplication by (entity a, entity b, kind): repeated structural
// evidence accumulates strength and source locations, it never produces duplicate
// records.
//
// The algorithm detector only matches a closed list of well-known algorithm names;
// proving two hand-written algorithms equivalent is out of scope.
package connascence
