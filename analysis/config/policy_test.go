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

package config

import (
	"errors"
	"testing"
)

const validPolicy = `
policy-id: web-taint
sources:
  - rule-id: src-request
    pattern:
      method: "^handle"
      field: request
    source-type: parameter
    tags: [user-input]
sinks:
  - rule-id: sink-exec
    pattern:
      receiver: cursor
      method: execute
    category: sql-injection
    severity: high
sanitizers:
  - rule-id: san-escape
    pattern:
      method: escape
    effectiveness: full
  - rule-id: san-quote
    pattern:
      method: quote
    effectiveness: per-tag
    tags: [user-input]
`

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy([]byte(validPolicy))
	if err != nil {
		t.Fatalf("parsing valid policy: %v", err)
	}
	if p.PolicyID != "web-taint" {
		t.Errorf("wrong policy id %q", p.PolicyID)
	}
	if len(p.Sources) != 1 || len(p.Sinks) != 1 || len(p.Sanitizers) != 2 {
		t.Errorf("wrong rule counts: %d sources, %d sinks, %d sanitizers",
			len(p.Sources), len(p.Sinks), len(p.Sanitizers))
	}
	if len(p.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", p.Warnings)
	}
	if p.Sanitizers[0].Effect != EffectFull {
		t.Error("san-escape should be a full sanitizer")
	}
	if p.Sanitizers[1].Effect != EffectPerTag {
		t.Error("san-quote should be a per-tag sanitizer")
	}
}

func TestParsePolicyRejectsMalformedDocument(t *testing.T) {
	for _, doc := range []string{
		"",                      // empty document
		"sources: [",            // not yaml
		"sources: []",           // missing policy id
		"policy-id: p\nbogus: 1", // unknown field
	} {
		_, err := ParsePolicy([]byte(doc))
		var pe *PolicyParseError
		if !errors.As(err, &pe) {
			t.Errorf("document %q: expected PolicyParseError, got %v", doc, err)
		}
	}
}

func TestParsePolicySkipsUnusableRules(t *testing.T) {
	doc := `
policy-id: p
sources:
  - rule-id: src-broken
    pattern:
      method: "(["
    tags: [a]
  - rule-id: src-empty
    pattern: {}
    tags: [a]
  - rule-id: src-ok
    pattern:
      method: f
    tags: [a]
sanitizers:
  - rule-id: san-untagged
    pattern:
      method: g
    effectiveness: per-tag
`
	p, err := ParsePolicy([]byte(doc))
	if err != nil {
		t.Fatalf("a bad rule must not fail the whole policy: %v", err)
	}
	if len(p.Sources) != 1 || p.Sources[0].RuleID != "src-ok" {
		t.Errorf("expected only src-ok to survive, got %v", p.Sources)
	}
	if len(p.Sanitizers) != 0 {
		t.Errorf("per-tag sanitizer without tags should be skipped, got %v", p.Sanitizers)
	}
	if len(p.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", p.Warnings)
	}
	var up *UnsupportedPatternError
	if !errors.As(p.Warnings[0], &up) || up.RuleID != "src-broken" {
		t.Errorf("warning should identify the skipped rule, got %v", p.Warnings[0])
	}
}

func TestParsePolicyRejectsDuplicateIDs(t *testing.T) {
	doc := `
policy-id: p
sources:
  - rule-id: dup
    pattern:
      method: f
    tags: [a]
sinks:
  - rule-id: dup
    pattern:
      method: g
`
	if _, err := ParsePolicy([]byte(doc)); err == nil {
		t.Error("expected an error for duplicate rule ids")
	}
}

func TestMergePoliciesRejectsDuplicateIDsAcrossPolicies(t *testing.T) {
	p1, err := ParsePolicy([]byte("policy-id: p1\nsources:\n  - rule-id: r\n    pattern:\n      method: f\n    tags: [a]\n"))
	if err != nil {
		t.Fatal(err)
	}
	p2, err := ParsePolicy([]byte("policy-id: p2\nsources:\n  - rule-id: r\n    pattern:\n      method: g\n    tags: [a]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := MergePolicies(p1, p2); err == nil {
		t.Error("expected an error for a rule id shared across policies")
	}
}

func TestMergePoliciesWarnsOnOverlappingPatterns(t *testing.T) {
	p1, err := ParsePolicy([]byte("policy-id: p1\nsources:\n  - rule-id: r1\n    pattern:\n      method: f\n    tags: [a]\n"))
	if err != nil {
		t.Fatal(err)
	}
	p2, err := ParsePolicy([]byte("policy-id: p2\nsources:\n  - rule-id: r2\n    pattern:\n      method: f\n    tags: [b]\n"))
	if err != nil {
		t.Fatal(err)
	}
	merged, err := MergePolicies(p1, p2)
	if err != nil {
		t.Fatalf("overlap is not an error: %v", err)
	}
	if len(merged.Sources) != 2 {
		t.Errorf("both overlapping rules should be kept, got %d", len(merged.Sources))
	}
	if len(merged.Warnings) != 1 {
		t.Errorf("expected one overlap warning, got %v", merged.Warnings)
	}
}

func TestCodePatternMatching(t *testing.T) {
	p := CodePattern{Receiver: "^cursor$", Method: "execute"}
	if err := p.compile(); err != nil {
		t.Fatal(err)
	}
	if !p.Matches(PatternTarget{Receiver: "cursor", Method: "execute"}) {
		t.Error("pattern should match its target")
	}
	if p.Matches(PatternTarget{Receiver: "connection", Method: "execute"}) {
		t.Error("receiver mismatch should not match")
	}
	// empty fields match anything
	if !p.Matches(PatternTarget{Receiver: "cursor", Method: "executemany", Package: "db"}) {
		t.Error("empty pattern fields should be wildcards")
	}
}
