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
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/connascence"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
	"github.com/awslabs/ar-deep-analysis/analysis/taint"
)

func testLogger(t *testing.T) *config.LogGroup {
	t.Helper()
	opts := config.NewDefaultOptions()
	opts.LogLevel = int(config.ErrLevel)
	l := config.NewLogGroup(opts)
	l.SetAllOutput(io.Discard)
	return l
}

func buildFixture(t *testing.T) (*semantic.Model, *config.Policy) {
	t.Helper()
	b := semantic.NewBuilder("web")
	login := b.AddEntity(semantic.EntityFunction, 1, "login", semantic.Position{Line: 1})
	userID := b.AddEntity(semantic.EntityValue, 2, "user_id", semantic.Position{Line: 1, Column: 11})
	call := b.AddEntity(semantic.EntityCallSite, 3, "cursor.execute", semantic.Position{Line: 4})
	sql := b.AddEntity(semantic.EntityValue, 4, "sql", semantic.Position{Line: 4, Column: 16})
	b.AddValueNode(semantic.ValueNode{ID: userID, Kind: semantic.ValueParam, Fn: login,
		Call: semantic.InvalidEntity, Index: 0})
	b.AddValueNode(semantic.ValueNode{ID: sql, Kind: semantic.ValueCallArg, Fn: login,
		Call: call, Index: 0})
	b.AddCallSite(semantic.CallSite{ID: call, Method: "execute", Receiver: "cursor", Caller: login})
	b.SetSignature(login, semantic.Signature{Params: []semantic.Param{
		{Name: "user_id", Type: "string", Primitive: true, Resolved: true},
	}})
	b.AddFlowEdge(userID, sql, semantic.FlowDirect, "concat")
	m, err := b.Build()
	require.NoError(t, err)

	p, err := config.ParsePolicy([]byte(`
policy-id: login
sources:
  - rule-id: src
    pattern:
      method: "^login$"
    source-type: parameter
    tags: [user-input]
sinks:
  - rule-id: sink
    pattern:
      receiver: "^cursor$"
    category: sql-injection
    severity: high
`))
	require.NoError(t, err)
	return m, p
}

func emitAll(t *testing.T, m *semantic.Model, p *config.Policy) *SliceStore {
	t.Helper()
	logger := testLogger(t)
	opts := config.NewDefaultOptions()
	res, err := taint.Analyze(context.Background(), logger, m, p, opts)
	require.NoError(t, err)
	findings := connascence.Analyze(logger, m, opts)

	store := &SliceStore{}
	emitter := NewEmitter(logger, store, m)
	require.NoError(t, emitter.EmitTaint(res))
	require.NoError(t, emitter.EmitCoupling(findings))
	return store
}

func TestEmittedFactShapes(t *testing.T) {
	m, p := buildFixture(t)
	got := emitAll(t, m, p).Facts()

	byKind := map[Kind]int{}
	for _, f := range got {
		byKind[f.Kind]++
	}
	require.Equal(t, 1, byKind[TaintSource])
	require.Equal(t, 1, byKind[TaintSink])
	require.Equal(t, 1, byKind[TaintFlow])

	var flow Fact
	for _, f := range got {
		if f.Kind == TaintFlow {
			flow = f
		}
	}
	require.Equal(t, "user_id", flow.Subject)
	require.Equal(t, "sql", flow.Object)
	require.Equal(t, []string{"user-input"}, flow.Tags)
	require.False(t, flow.Sanitized)
	require.Equal(t, []string{"user_id", "sql"}, flow.Path)
	require.Equal(t, "sql-injection", flow.Category)
	require.NotEmpty(t, flow.Prov.RunID)
	require.Equal(t, EngineVersion, flow.Prov.Engine)
	require.Equal(t, m.Fingerprint(), flow.Prov.Fingerprint)
}

func TestFactFingerprintStableAcrossRuns(t *testing.T) {
	m, p := buildFixture(t)
	first := emitAll(t, m, p).Facts()
	second := emitAll(t, m, p).Facts()
	require.Equal(t, len(first), len(second))

	for i := range first {
		require.NotEqual(t, first[i].Prov.RunID, second[i].Prov.RunID,
			"each emitter draws a fresh run id")
		require.Equal(t, first[i].Fingerprint(), second[i].Fingerprint(),
			"fact fingerprints must not depend on the run id")
	}
}

func TestFactFingerprintDiscriminates(t *testing.T) {
	a := Fact{Kind: TaintFlow, Subject: "x", Object: "y", Tags: []string{"t"}}
	b := a
	b.Sanitized = true
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	c := a
	c.Object = "z"
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
