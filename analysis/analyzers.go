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

// Package analysis contains the top-level drivers that run the taint and coupling
// analyses over semantic models.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/connascence"
	"github.com/awslabs/ar-deep-analysis/analysis/facts"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/analysis/taint"
	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
)

// RunParams bundles the inputs shared by every analysis run.
type RunParams struct {
	// Logger receives the analysis output
	Logger *config.LogGroup

	// Options controls budgets, worker counts and reporting
	Options config.Options

	// Policies are the taint policies to evaluate; each policy runs independently
	Policies []*config.Policy

	// Store receives the emitted facts; nil disables emission
	Store facts.Store

	// Cache, when non-nil, is populated with the analyzed models so unchanged
	// units can be reused across runs
	Cache *semantic.Cache
}

// A UnitResult is the outcome of analyzing one model. Taint holds one result per
// policy, in policy order. Err is set when the model failed contract validation;
// a unit error never aborts the other units.
type UnitResult struct {
	Unit     string
	Taint    []taint.AnalysisResult
	Coupling []connascence.Finding
	Err      error
}

// RunUnits analyzes the models independently with a worker pool. Models are
// validated on receipt; an invalid model yields a UnitResult with Err set while
// the remaining units run to completion.
func RunUnits(ctx context.Context, models []*semantic.Model, params RunParams) []UnitResult {
	start := time.Now()
	params.Logger.Infof("Starting analysis of %d units ...", len(models))

	results := funcutil.MapParallel(models,
		func(m *semantic.Model) UnitResult { return runOne(ctx, m, params) },
		params.Options.NumWorkers)

	params.Logger.Infof("Analysis done (%.2f s).", time.Since(start).Seconds())
	return results
}

// RunMerged merges the models into one project-level model and runs a single
// analysis over it. The merge is a barrier: cross-unit flows only exist in the
// merged graph, so every per-unit model must be ready before propagation starts.
func RunMerged(ctx context.Context, models []*semantic.Model, params RunParams) (UnitResult, error) {
	merged, err := semantic.Merge(models...)
	if err != nil {
		return UnitResult{}, fmt.Errorf("merging %d unit models: %w", len(models), err)
	}
	res := runOne(ctx, merged, params)
	return res, res.Err
}

func runOne(ctx context.Context, model *semantic.Model, params RunParams) UnitResult {
	logger := params.Logger
	unit := strings.Join(model.Units, ",")
	res := UnitResult{Unit: unit}

	if err := model.Validate(); err != nil {
		logger.Errorf("unit %s: %v", unit, err)
		res.Err = err
		return res
	}
	if params.Cache != nil {
		params.Cache.Put(model)
	}
	if logger.Level() >= config.TraceLevel {
		logger.Tracef("unit %s model:\n%s", unit, spew.Sdump(model))
	}

	// Policies and detectors only read the immutable model, so they run
	// concurrently and write to disjoint outputs.
	type taintOut struct {
		res taint.AnalysisResult
		err error
	}
	outs := funcutil.MapParallel(params.Policies,
		func(p *config.Policy) taintOut {
			r, err := taint.Analyze(ctx, logger, model, p, params.Options)
			return taintOut{r, err}
		},
		params.Options.NumWorkers)
	res.Coupling = connascence.Analyze(logger, model, params.Options)

	for i, out := range outs {
		if out.err != nil {
			logger.Errorf("unit %s policy %s: %v", unit, params.Policies[i].PolicyID, out.err)
			res.Err = out.err
			continue
		}
		res.Taint = append(res.Taint, out.res)
	}

	if params.Store != nil {
		emitter := facts.NewEmitter(logger, params.Store, model)
		for _, tr := range res.Taint {
			if err := emitter.EmitTaint(tr); err != nil {
				res.Err = err
				return res
			}
		}
		if err := emitter.EmitCoupling(res.Coupling); err != nil {
			res.Err = err
			return res
		}
	}
	return res
}
