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
	"fmt"
	"os"
)

// Effectiveness is the scope of a sanitizer rule.
type Effectiveness uint8

const (
	// EffectFull neutralizes every tag flowing through the sanitizer
	EffectFull Effectiveness = iota
	// EffectPerTag neutralizes only the tags listed by the rule
	EffectPerTag
)

// A SourceRule marks matching model elements as origins of tainted data.
type SourceRule struct {
	RuleID     string      `yaml:"rule-id"`
	Pattern    CodePattern `yaml:"pattern"`
	SourceType string      `yaml:"source-type"`
	Tags       []string    `yaml:"tags"`
}

// A SinkRule marks matching model elements as sensitive operations.
type SinkRule struct {
	RuleID   string      `yaml:"rule-id"`
	Pattern  CodePattern `yaml:"pattern"`
	Category string      `yaml:"category"`
	Severity string      `yaml:"severity"`
}

// A SanitizerRule marks matching model elements as neutralizing constructs.
// Effectiveness is either "full" or "per-tag"; per-tag sanitizers list the tags they
// neutralize.
type SanitizerRule struct {
	RuleID        string      `yaml:"rule-id"`
	Pattern       CodePattern `yaml:"pattern"`
	Effectiveness string      `yaml:"effectiveness"`
	Tags          []string    `yaml:"tags"`

	// Effect is the parsed effectiveness, populated at load time
	Effect Effectiveness `yaml:"-"`
}

// A Policy is one parsed taint policy document. Rules that could not be loaded are
// absent from the rule tables; the corresponding UnsupportedPatternError values are
// collected in Warnings.
type Policy struct {
	PolicyID   string          `yaml:"policy-id"`
	Sources    []SourceRule    `yaml:"sources"`
	Sinks      []SinkRule      `yaml:"sinks"`
	Sanitizers []SanitizerRule `yaml:"sanitizers"`

	// Warnings collects the per-rule errors recovered during loading
	Warnings []error `yaml:"-"`
}

// ParsePolicy parses a policy document. A document that is not valid yaml or has no
// policy id yields a PolicyParseError. Rules with unusable patterns are skipped and
// recorded in Policy.Warnings; they do not fail the whole policy.
func ParsePolicy(doc []byte) (*Policy, error) {
	raw := &Policy{}
	if err := unmarshalStrict(doc, raw); err != nil {
		return nil, &PolicyParseError{Policy: raw.PolicyID, Err: err}
	}
	if raw.PolicyID == "" {
		return nil, &PolicyParseError{Policy: "", Err: fmt.Errorf("missing policy-id")}
	}

	p := &Policy{PolicyID: raw.PolicyID}
	ids := map[string]bool{}

	checkID := func(id string) error {
		if id == "" {
			return &PolicyParseError{Policy: p.PolicyID, Err: fmt.Errorf("rule without rule-id")}
		}
		if ids[id] {
			return &PolicyParseError{Policy: p.PolicyID, Err: fmt.Errorf("duplicate rule id %q", id)}
		}
		ids[id] = true
		return nil
	}

	for _, r := range raw.Sources {
		if err := checkID(r.RuleID); err != nil {
			return nil, err
		}
		if reason, ok := usablePattern(&r.Pattern); !ok {
			p.Warnings = append(p.Warnings, &UnsupportedPatternError{RuleID: r.RuleID, Reason: reason})
			continue
		}
		if len(r.Tags) == 0 {
			p.Warnings = append(p.Warnings, &UnsupportedPatternError{RuleID: r.RuleID, Reason: "source rule has no tags"})
			continue
		}
		p.Sources = append(p.Sources, r)
	}
	for _, r := range raw.Sinks {
		if err := checkID(r.RuleID); err != nil {
			return nil, err
		}
		if reason, ok := usablePattern(&r.Pattern); !ok {
			p.Warnings = append(p.Warnings, &UnsupportedPatternError{RuleID: r.RuleID, Reason: reason})
			continue
		}
		p.Sinks = append(p.Sinks, r)
	}
	for _, r := range raw.Sanitizers {
		if err := checkID(r.RuleID); err != nil {
			return nil, err
		}
		if reason, ok := usablePattern(&r.Pattern); !ok {
			p.Warnings = append(p.Warnings, &UnsupportedPatternError{RuleID: r.RuleID, Reason: reason})
			continue
		}
		switch r.Effectiveness {
		case "", "full":
			r.Effect = EffectFull
		case "per-tag":
			if len(r.Tags) == 0 {
				p.Warnings = append(p.Warnings,
					&UnsupportedPatternError{RuleID: r.RuleID, Reason: "per-tag sanitizer lists no tags"})
				continue
			}
			r.Effect = EffectPerTag
		default:
			p.Warnings = append(p.Warnings, &UnsupportedPatternError{
				RuleID: r.RuleID,
				Reason: fmt.Sprintf("unknown effectiveness %q", r.Effectiveness),
			})
			continue
		}
		p.Sanitizers = append(p.Sanitizers, r)
	}

	return p, nil
}

// LoadPolicy reads and parses a policy document from a file. This is a convenience
// for callers outside the engine; the engine itself only consumes parsed policies.
func LoadPolicy(filename string) (*Policy, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read policy file: %w", err)
	}
	return ParsePolicy(b)
}

// usablePattern compiles the pattern and reports whether the rule can be kept.
func usablePattern(p *CodePattern) (string, bool) {
	if p.IsEmpty() {
		return "empty pattern matches everything", false
	}
	if err := p.compile(); err != nil {
		return fmt.Sprintf("unsupported pattern syntax: %v", err), false
	}
	return "", true
}

// MergePolicies merges several parsed policies into one rule set. Rule identity is the
// rule id; a duplicate id across the merged policies is an error. Overlapping rules
// (identical patterns under different ids) are flagged as warnings and both kept:
// precedence between overlapping policies is deliberately left undefined.
func MergePolicies(policies ...*Policy) (*Policy, error) {
	merged := &Policy{PolicyID: "merged"}
	if len(policies) == 1 {
		return policies[0], nil
	}
	ids := map[string]string{}
	patterns := map[string]string{}

	record := func(id, policyID string, pat *CodePattern, kind string) error {
		if prev, ok := ids[id]; ok {
			return fmt.Errorf("duplicate rule id %q in policies %q and %q", id, prev, policyID)
		}
		ids[id] = policyID
		pkey := kind + "\x00" + pat.key()
		if prev, ok := patterns[pkey]; ok {
			merged.Warnings = append(merged.Warnings,
				fmt.Errorf("rules %q and %q overlap on the same %s pattern; precedence is undefined", prev, id, kind))
		} else {
			patterns[pkey] = id
		}
		return nil
	}

	for _, p := range policies {
		for _, r := range p.Sources {
			if err := record(r.RuleID, p.PolicyID, &r.Pattern, "source"); err != nil {
				return nil, err
			}
			merged.Sources = append(merged.Sources, r)
		}
		for _, r := range p.Sinks {
			if err := record(r.RuleID, p.PolicyID, &r.Pattern, "sink"); err != nil {
				return nil, err
			}
			merged.Sinks = append(merged.Sinks, r)
		}
		for _, r := range p.Sanitizers {
			if err := record(r.RuleID, p.PolicyID, &r.Pattern, "sanitizer"); err != nil {
				return nil, err
			}
			merged.Sanitizers = append(merged.Sanitizers, r)
		}
		merged.Warnings = append(merged.Warnings, p.Warnings...)
	}
	return merged, nil
}
