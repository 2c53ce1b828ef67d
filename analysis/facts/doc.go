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

// Package facts translates analysis output into atomic fact records for an external
// fact store. Four fact kinds exist: taint sources, taint sinks, taint flows and
// coupling findings. Every fact carries source locations and provenance metadata
// (run id, unit, engine version, model fingerprint) and a content fingerprint that
// is stable across runs, so a store can deduplicate facts emitted by different runs
// over the same model.
//
// The wire format of the store is not defined here; the Store interface is the
// boundary and any serializer can sit behind it.
package facts
