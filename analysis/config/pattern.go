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

import "regexp"

// A CodePattern identifies a code element that is a source, sink or sanitizer.
// A code element can be identified from its package, method, receiver, field or type,
// or any combination of those. Matching is purely structural against the semantic
// model; a pattern never executes code.
type CodePattern struct {
	Package  string `yaml:"package"`
	Method   string `yaml:"method"`
	Receiver string `yaml:"receiver"`
	Field    string `yaml:"field"`
	Type     string `yaml:"type"`

	// compiled regexes, populated by compile; not part of the yaml document
	compiled *codePatternRegex
}

type codePatternRegex struct {
	packageRegex  *regexp.Regexp
	methodRegex   *regexp.Regexp
	receiverRegex *regexp.Regexp
	fieldRegex    *regexp.Regexp
	typeRegex     *regexp.Regexp
}

// A PatternTarget is the structural description of a model element that a pattern is
// matched against. Empty fields of the pattern match anything.
type PatternTarget struct {
	Package  string
	Method   string
	Receiver string
	Field    string
	Type     string
}

// IsEmpty returns true when no field of the pattern is set. An empty pattern would
// match every element and is rejected at load time.
func (p *CodePattern) IsEmpty() bool {
	return p.Package == "" && p.Method == "" && p.Receiver == "" && p.Field == "" && p.Type == ""
}

// compile compiles all pattern fields into regexes, or none on failure.
func (p *CodePattern) compile() error {
	packageRegex, err := regexp.Compile(p.Package)
	if err != nil {
		return err
	}
	methodRegex, err := regexp.Compile(p.Method)
	if err != nil {
		return err
	}
	receiverRegex, err := regexp.Compile(p.Receiver)
	if err != nil {
		return err
	}
	fieldRegex, err := regexp.Compile(p.Field)
	if err != nil {
		return err
	}
	typeRegex, err := regexp.Compile(p.Type)
	if err != nil {
		return err
	}
	p.compiled = &codePatternRegex{
		packageRegex:  packageRegex,
		methodRegex:   methodRegex,
		receiverRegex: receiverRegex,
		fieldRegex:    fieldRegex,
		typeRegex:     typeRegex,
	}
	return nil
}

// Matches returns true if each non-empty field of the pattern matches the
// corresponding field of the target.
func (p *CodePattern) Matches(t PatternTarget) bool {
	if p.compiled != nil {
		return (p.Package == "" || p.compiled.packageRegex.MatchString(t.Package)) &&
			(p.Method == "" || p.compiled.methodRegex.MatchString(t.Method)) &&
			(p.Receiver == "" || p.compiled.receiverRegex.MatchString(t.Receiver)) &&
			(p.Field == "" || p.compiled.fieldRegex.MatchString(t.Field)) &&
			(p.Type == "" || p.compiled.typeRegex.MatchString(t.Type))
	}
	return (p.Package == "" || p.Package == t.Package) &&
		(p.Method == "" || p.Method == t.Method) &&
		(p.Receiver == "" || p.Receiver == t.Receiver) &&
		(p.Field == "" || p.Field == t.Field) &&
		(p.Type == "" || p.Type == t.Type)
}

// key is a canonical representation used to detect overlapping rules across policies.
func (p *CodePattern) key() string {
	return p.Package + "\x00" + p.Method + "\x00" + p.Receiver + "\x00" + p.Field + "\x00" + p.Type
}
