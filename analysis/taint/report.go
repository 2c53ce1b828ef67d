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
	"strings"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/internal/formatutil"
)

// reportFlows logs every detected flow with its witness trace. Entity names come
// from translator output and are sanitized before they reach the log.
func reportFlows(logger *config.LogGroup, model *semantic.Model, flows *Flows) {
	name := func(id semantic.EntityID) string {
		return formatutil.Sanitize(model.EntityName(id))
	}
	for _, flow := range flows.Sorted() {
		srcPos := model.Entity(flow.Source).Pos
		sinkPos := model.Entity(flow.Sink).Pos
		if flow.Sanitized {
			logger.Infof(" Sanitized flow from %s to %s [%s]",
				formatutil.Green(name(flow.Source)),
				formatutil.Green(name(flow.Sink)),
				strings.Join(flow.Tags, ","))
			continue
		}
		logger.Infof(" 💀 Sink reached at %s", formatutil.Red(sinkPos))
		logger.Infof(" Add new path from %s to %s [%s] <== ",
			formatutil.Green(name(flow.Source)),
			formatutil.Red(name(flow.Sink)),
			strings.Join(flow.Tags, ","))
		logger.Infof("   Source at: %s", srcPos)
		for _, n := range flow.Path {
			logger.Debugf("   TRACE: [%s] %s", name(n), model.Entity(n).Pos)
		}
		logger.Infof("   Sink at: %s", sinkPos)
	}
}
