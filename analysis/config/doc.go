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

// Package config implements the declarative taint policy loader and the logging
// utilities shared by the analyses.
//
// A policy document is a yaml file with repeated source, sink and sanitizer entries.
// Each entry carries a structural code pattern that is matched against the semantic
// model; patterns never execute code. A rule whose pattern cannot be compiled is
// skipped with a warning so that the rest of the policy still loads: different rules
// may target constructs that are not present in every language.
package config
