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

// DefaultMaxIterations bounds the number of fact derivations of one propagation run
// when the caller does not set a budget.
const DefaultMaxIterations = 1000000

// Options controls the behavior of an analysis run. Policies describe what to look
// for; Options describe how hard to look and what to report.
type Options struct {
	// LogLevel controls the verbosity of the analyses
	LogLevel int `yaml:"log-level"`

	// MaxIterations caps the number of fact derivations in one fixed-point run.
	// When the cap is exceeded the propagator returns the facts computed so far,
	// flagged incomplete. If <= 0 the default is used.
	MaxIterations int `yaml:"max-iterations"`

	// ReportNameCoupling enables reporting of connascence-of-name findings, which
	// hold for every reference edge by construction and are only useful as a
	// completeness signal.
	ReportNameCoupling bool `yaml:"report-name-coupling"`

	// MaxAlarms caps the number of taint flows reported per run. If <= 0 it is ignored.
	MaxAlarms int `yaml:"max-alarms"`

	// NumWorkers sets the size of the worker pool used across independent units and
	// detectors. If <= 0 the analyses pick a sensible default.
	NumWorkers int `yaml:"num-workers"`

	// SilenceWarn suppresses warning output
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefaultOptions returns the default analysis options.
func NewDefaultOptions() Options {
	return Options{
		LogLevel:      int(InfoLevel),
		MaxIterations: DefaultMaxIterations,
	}
}

// IterationBudget returns the configured iteration cap, or the default when unset.
func (o Options) IterationBudget() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}
