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

package facts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/connascence"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/analysis/taint"
	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
)

// An Emitter translates analysis results into facts and hands them to a store.
// One emitter serves one model; its provenance is fixed at construction.
type Emitter struct {
	logger *config.LogGroup
	store  Store
	model  *semantic.Model
	prov   Provenance
}

// NewEmitter returns an emitter for the model writing to store. A fresh run id is
// drawn per emitter.
func NewEmitter(logger *config.LogGroup, store Store, model *semantic.Model) *Emitter {
	return &Emitter{
		logger: logger,
		store:  store,
		model:  model,
		prov: Provenance{
			RunID:       uuid.NewString(),
			Unit:        strings.Join(model.Units, ","),
			Engine:      EngineVersion,
			Fingerprint: model.Fingerprint(),
		},
	}
}

// EmitTaint emits one taint-source fact per matched source, one taint-sink fact per
// matched sink and one taint-flow fact per detected flow, in that order, each group
// in its deterministic ordering.
func (e *Emitter) EmitTaint(res taint.AnalysisResult) error {
	for _, src := range res.Sources {
		if err := e.add(e.nodeFact(TaintSource, src)); err != nil {
			return err
		}
	}
	for _, sink := range res.Sinks {
		if err := e.add(e.nodeFact(TaintSink, sink)); err != nil {
			return err
		}
	}
	for _, flow := range res.Flows.Sorted() {
		f := Fact{
			Kind:      TaintFlow,
			Subject:   e.model.EntityName(flow.Source),
			Object:    e.model.EntityName(flow.Sink),
			Tags:      sortedCopy(flow.Tags),
			Sanitized: flow.Sanitized,
			Category:  flow.Category,
			Severity:  flow.Severity,
			Locs: []semantic.Position{
				e.model.Entity(flow.Source).Pos,
				e.model.Entity(flow.Sink).Pos,
			},
			Prov: e.prov,
		}
		f.Path = funcutil.Map(flow.Path, e.model.EntityName)
		if err := e.add(f); err != nil {
			return err
		}
	}
	return nil
}

// EmitCoupling emits one coupling fact per finding, in finding order.
func (e *Emitter) EmitCoupling(findings []connascence.Finding) error {
	for _, fd := range findings {
		f := Fact{
			Kind:     Coupling,
			Subject:  e.model.EntityName(fd.A),
			Object:   e.model.EntityName(fd.B),
			Coupling: fd.Kind.String(),
			Strength: fd.Strength,
			Locs:     fd.Locs,
			Prov:     e.prov,
		}
		if err := e.add(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) nodeFact(kind Kind, id semantic.EntityID) Fact {
	return Fact{
		Kind:    kind,
		Subject: e.model.EntityName(id),
		Locs:    []semantic.Position{e.model.Entity(id).Pos},
		Prov:    e.prov,
	}
}

func (e *Emitter) add(f Fact) error {
	if err := e.store.Add(f); err != nil {
		return fmt.Errorf("fact store rejected %s fact for %s: %w", f.Kind, f.Subject, err)
	}
	e.logger.Tracef("emitted %s fact %s", f.Kind, f.Fingerprint())
	return nil
}

func sortedCopy(xs []string) []string {
	out := make([]string, len(xs))
	copy(out, xs)
	sort.Strings(out)
	return out
}
