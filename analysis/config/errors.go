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

import "fmt"

// A PolicyParseError reports a malformed policy document. It is fatal for the policy
// it names but never aborts loading other policies.
type PolicyParseError struct {
	Policy string
	Err    error
}

func (e *PolicyParseError) Error() string {
	return fmt.Sprintf("could not parse policy %q: %v", e.Policy, e.Err)
}

func (e *PolicyParseError) Unwrap() error {
	return e.Err
}

// An UnsupportedPatternError reports a rule whose pattern the loader could not
// compile or that references no construct at all. The rule is skipped and loading
// continues; callers surface these as warnings.
type UnsupportedPatternError struct {
	RuleID string
	Reason string
}

func (e *UnsupportedPatternError) Error() string {
	return fmt.Sprintf("rule %q skipped: %s", e.RuleID, e.Reason)
}
