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

package taint

import (
	"fmt"
	"sort"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
)

// MaxTags is the maximum size of the tag vocabulary of a policy. Tag sets are bitmasks,
// which both bounds the lattice and makes set operations cheap.
const MaxTags = 64

// A TagSet is a set of policy tags represented as a bitmask over the tag domain.
type TagSet uint64

// IsEmpty returns true when the set carries no tag
func (t TagSet) IsEmpty() bool {
	return t == 0
}

// Union returns the union of the two sets
func (t TagSet) Union(o TagSet) TagSet {
	return t | o
}

// Intersect returns the intersection of the two sets
func (t TagSet) Intersect(o TagSet) TagSet {
	return t & o
}

// Minus returns the set without the tags of o
func (t TagSet) Minus(o TagSet) TagSet {
	return t &^ o
}

// A TagDomain is the closed tag vocabulary of a policy, mapping tag names to bit
// positions. The domain is fixed before propagation starts.
type TagDomain struct {
	names []string
	index map[string]int
}

// NewTagDomain collects the tag vocabulary of the policy: the tags of all source
// rules and of all per-tag sanitizers. More than MaxTags distinct tags is a policy
// error.
func NewTagDomain(policy *config.Policy) (*TagDomain, error) {
	set := map[string]bool{}
	for _, r := range policy.Sources {
		for _, t := range r.Tags {
			set[t] = true
		}
	}
	for _, r := range policy.Sanitizers {
		for _, t := range r.Tags {
			set[t] = true
		}
	}
	if len(set) > MaxTags {
		return nil, &config.PolicyParseError{
			Policy: policy.PolicyID,
			Err:    fmt.Errorf("policy uses %d tags, more than the maximum of %d", len(set), MaxTags),
		}
	}
	d := &TagDomain{index: make(map[string]int, len(set))}
	for t := range set {
		d.names = append(d.names, t)
	}
	sort.Strings(d.names)
	for i, t := range d.names {
		d.index[t] = i
	}
	return d, nil
}

// Size returns the number of tags in the domain
func (d *TagDomain) Size() int {
	return len(d.names)
}

// All returns the set of every tag in the domain
func (d *TagDomain) All() TagSet {
	if len(d.names) == 0 {
		return 0
	}
	return TagSet(1)<<len(d.names) - 1
}

// SetOf returns the tag set for the given tag names. Names outside the domain are
// ignored: they cannot appear in any fact.
func (d *TagDomain) SetOf(tags []string) TagSet {
	var s TagSet
	for _, t := range tags {
		if i, ok := d.index[t]; ok {
			s |= TagSet(1) << i
		}
	}
	return s
}

// Names returns the sorted tag names of the set
func (d *TagDomain) Names(s TagSet) []string {
	var out []string
	for i, name := range d.names {
		if s&(TagSet(1)<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}
