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
	"context"
	"errors"
	"time"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

// ErrPropagationIncomplete signals that the iteration budget or the caller's context
// cut a propagation run short. The flows computed so far are still returned; nothing
// is silently dropped.
var ErrPropagationIncomplete = errors.New("taint propagation incomplete: budget exceeded")

// AnalysisResult is the output of one taint analysis run.
type AnalysisResult struct {
	// Flows contains all the data flows from the sources to the sinks detected
	// during the analysis
	Flows *Flows

	// Sources and Sinks list the data-flow nodes the policy matched, in ascending
	// order, whether or not they participate in a flow
	Sources []semantic.EntityID
	Sinks   []semantic.EntityID

	// Incomplete is true when the iteration budget or the context expired before
	// the fixed point was reached; Flows then holds the facts computed so far
	Incomplete bool

	// Warnings contains the non-fatal problems encountered during the analysis
	Warnings []error
}

// Analyze runs the taint propagation on the model with the given policy.
//
// The analysis proceeds in three steps. First the policy's rule tables are matched
// structurally against the model's data-flow nodes, seeding Tainted(node, tags) base
// facts at every source. Then, for each source in ascending node order, a semi-naive
// fixed point propagates tag sets along flows-to edges, with sanitizers intersecting
// the propagated set with their surviving tags. Finally a flow is reported for every
// sink the source reaches, with sanitized=true when no tag survived the path.
//
// The model is only read; concurrent calls with the same model are safe.
func Analyze(ctx context.Context, logger *config.LogGroup, model *semantic.Model,
	policy *config.Policy, opts config.Options) (AnalysisResult, error) {

	domain, err := NewTagDomain(policy)
	if err != nil {
		return AnalysisResult{}, err
	}

	start := time.Now()
	idx := buildRuleIndex(model, policy, domain)
	logger.Infof("Policy %s: %d source nodes, %d sink nodes matched",
		policy.PolicyID, len(idx.seeds), len(idx.sinks))

	s := newSession(model, logger, domain, idx, opts.IterationBudget())
	flows := NewFlows()
	incomplete := false

	for _, src := range idx.sourceIDs() {
		seed := idx.seeds[src]
		if seed.IsEmpty() {
			continue
		}
		facts, reached, inc := s.run(ctx, src, seed)
		if inc {
			incomplete = true
		}
		for _, sink := range idx.sinkIDs() {
			if !reached[sink] {
				continue
			}
			surviving := facts[sink]
			sanitized := surviving.IsEmpty()
			tags := domain.Names(surviving)
			if sanitized {
				tags = domain.Names(seed)
			}
			rule := idx.sinks[sink][0]
			flows.Add(Flow{
				Source:    src,
				Sink:      sink,
				Path:      s.witness(src, sink, facts, !sanitized),
				Tags:      tags,
				Sanitized: sanitized,
				Category:  rule.Category,
				Severity:  rule.Severity,
			})
		}
		if incomplete {
			break
		}
	}

	flows.Truncate(opts.MaxAlarms)
	reportFlows(logger, model, flows)

	var warnings []error
	if incomplete {
		warnings = append(warnings, ErrPropagationIncomplete)
		logger.Warnf("propagation stopped after %d derivations; results are partial", s.derivations)
	}
	logger.Infof("Taint analysis done (%.2f s), %d flows.", time.Since(start).Seconds(), flows.Len())

	return AnalysisResult{
		Flows:      flows,
		Sources:    idx.sourceIDs(),
		Sinks:      idx.sinkIDs(),
		Incomplete: incomplete,
		Warnings:   warnings,
	}, nil
}
