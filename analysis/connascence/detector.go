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

package connascence

import (
	"time"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/internal/funcutil"
)

// A Detector reads the model and reports the findings of one connascence kind.
// Detect must not mutate the model; Analyze runs detectors concurrently.
type Detector interface {
	Name() string
	Detect(model *semantic.Model) []Finding
}

// Detectors returns the detector set enabled by the options. The name detector is
// included only on request: name coupling holds for every reference edge by
// construction and is a completeness signal, not a smell.
func Detectors(opts config.Options) []Detector {
	ds := []Detector{
		typeDetector{},
		meaningDetector{},
		positionDetector{},
		algorithmDetector{},
	}
	if opts.ReportNameCoupling {
		ds = append([]Detector{nameDetector{}}, ds...)
	}
	return ds
}

// Analyze runs the enabled detectors over the model and returns the merged,
// deduplicated findings sorted by (entity a, entity b, kind).
func Analyze(logger *config.LogGroup, model *semantic.Model, opts config.Options) []Finding {
	start := time.Now()
	detectors := Detectors(opts)

	groups := funcutil.MapParallel(detectors,
		func(d Detector) []Finding {
			fs := d.Detect(model)
			logger.Debugf("detector %s: %d raw findings", d.Name(), len(fs))
			return fs
		},
		opts.NumWorkers)

	findings := mergeFindings(groups...)
	normalizeScores(findings)
	logger.Infof("Coupling analysis done (%.2f s), %d findings.",
		time.Since(start).Seconds(), len(findings))
	return findings
}
