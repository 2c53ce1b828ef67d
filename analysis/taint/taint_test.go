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
	"io"
	"reflect"
	"testing"

	"github.com/awslabs/ar-deep-analysis/analysis/config"
	"github.com/awslabs/ar-deep-analysis/analysis/semantic"
)

func testLogger(t *testing.T) *config.LogGroup {
	t.Helper()
	opts := config.NewDefaultOptions()
	opts.LogLevel = int(config.ErrLevel)
	l := config.NewLogGroup(opts)
	l.SetAllOutput(io.Discard)
	return l
}

func parsePolicy(t *testing.T, doc string) *config.Policy {
	t.Helper()
	p, err := config.ParsePolicy([]byte(doc))
	if err != nil {
		t.Fatalf("parsing policy: %v", err)
	}
	return p
}

const loginPolicy = `
policy-id: login
sources:
  - rule-id: src-user
    pattern:
      method: "^login$"
      field: "^user_id$"
    source-type: parameter
    tags: [user-input]
sinks:
  - rule-id: sink-sql
    pattern:
      receiver: "^cursor$"
      method: "^execute$"
    category: sql-injection
    severity: high
sanitizers:
  - rule-id: san-escape
    pattern:
      method: "^escape$"
    effectiveness: full
`

// loginModel is the login(user_id) -> cursor.execute(sql) unit. With an escape the
// flow goes through the result of an escape() call; without it user_id concatenates
// straight into the sql argument.
type loginModel struct {
	model  *semantic.Model
	userID semantic.EntityID
	sql    semantic.EntityID
	escRes semantic.EntityID
}

func buildLoginModel(t *testing.T, withEscape bool) loginModel {
	t.Helper()
	b := semantic.NewBuilder("web")
	pos := func(line, col int) semantic.Position {
		return semantic.Position{Filename: "web.src", Line: line, Column: col}
	}

	login := b.AddEntity(semantic.EntityFunction, 1, "login", pos(10, 1))
	userID := b.AddEntity(semantic.EntityValue, 2, "user_id", pos(10, 11))
	execCall := b.AddEntity(semantic.EntityCallSite, 3, "cursor.execute", pos(14, 5))
	sql := b.AddEntity(semantic.EntityValue, 4, "sql", pos(14, 20))

	b.AddValueNode(semantic.ValueNode{ID: userID, Kind: semantic.ValueParam, Fn: login,
		Call: semantic.InvalidEntity, Index: 0})
	b.AddValueNode(semantic.ValueNode{ID: sql, Kind: semantic.ValueCallArg, Fn: login,
		Call: execCall, Index: 0})
	b.AddCallSite(semantic.CallSite{ID: execCall, Method: "execute", Receiver: "cursor", Caller: login})
	b.SetSignature(login, semantic.Signature{Params: []semantic.Param{
		{Name: "user_id", Type: "string", Primitive: true, Resolved: true},
	}})

	escRes := semantic.InvalidEntity
	if withEscape {
		escCall := b.AddEntity(semantic.EntityCallSite, 5, "escape", pos(12, 9))
		escRes = b.AddEntity(semantic.EntityValue, 6, "escaped", pos(12, 1))
		b.AddCallSite(semantic.CallSite{ID: escCall, Method: "escape", Caller: login})
		b.AddValueNode(semantic.ValueNode{ID: escRes, Kind: semantic.ValueCallResult,
			Fn: login, Call: escCall, Index: 0})
		b.AddFlowEdge(userID, escRes, semantic.FlowCallArg, "escape")
		b.AddFlowEdge(escRes, sql, semantic.FlowDirect, "concat")
	} else {
		b.AddFlowEdge(userID, sql, semantic.FlowDirect, "concat")
	}

	m, err := b.Build()
	if err != nil {
		t.Fatalf("building model: %v", err)
	}
	return loginModel{model: m, userID: userID, sql: sql, escRes: escRes}
}

func analyze(t *testing.T, lm loginModel, policy *config.Policy, opts config.Options) AnalysisResult {
	t.Helper()
	res, err := Analyze(context.Background(), testLogger(t), lm.model, policy, opts)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return res
}

func TestUnsanitizedFlowDetected(t *testing.T) {
	lm := buildLoginModel(t, false)
	res := analyze(t, lm, parsePolicy(t, loginPolicy), config.NewDefaultOptions())

	flows := res.Flows.Sorted()
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	f := flows[0]
	if f.Source != lm.userID || f.Sink != lm.sql {
		t.Errorf("wrong endpoints: %d -> %d", f.Source, f.Sink)
	}
	if f.Sanitized {
		t.Error("flow has no sanitizer on the path, must not be sanitized")
	}
	if !reflect.DeepEqual(f.Tags, []string{"user-input"}) {
		t.Errorf("wrong tags %v", f.Tags)
	}
	if f.Category != "sql-injection" || f.Severity != "high" {
		t.Errorf("sink rule metadata lost: %q %q", f.Category, f.Severity)
	}
	want := []semantic.EntityID{lm.userID, lm.sql}
	if !reflect.DeepEqual(f.Path, want) {
		t.Errorf("wrong witness path %v, want %v", f.Path, want)
	}
	if !reflect.DeepEqual(res.Sources, []semantic.EntityID{lm.userID}) {
		t.Errorf("wrong matched sources %v", res.Sources)
	}
	if !reflect.DeepEqual(res.Sinks, []semantic.EntityID{lm.sql}) {
		t.Errorf("wrong matched sinks %v", res.Sinks)
	}
}

func TestFullSanitizerNeutralizesFlow(t *testing.T) {
	lm := buildLoginModel(t, true)
	res := analyze(t, lm, parsePolicy(t, loginPolicy), config.NewDefaultOptions())

	flows := res.Flows.Sorted()
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	f := flows[0]
	if !f.Sanitized {
		t.Error("every path goes through escape(), flow must be sanitized")
	}
	if !reflect.DeepEqual(f.Tags, []string{"user-input"}) {
		t.Errorf("a sanitized flow reports the seeded tags, got %v", f.Tags)
	}
	want := []semantic.EntityID{lm.userID, lm.escRes, lm.sql}
	if !reflect.DeepEqual(f.Path, want) {
		t.Errorf("wrong witness path %v, want %v", f.Path, want)
	}
}

func TestPerTagSanitizer(t *testing.T) {
	policy := parsePolicy(t, `
policy-id: per-tag
sources:
  - rule-id: src-user
    pattern:
      method: "^login$"
    source-type: parameter
    tags: [user-input, pii]
sinks:
  - rule-id: sink-sql
    pattern:
      receiver: "^cursor$"
    category: sql-injection
    severity: high
sanitizers:
  - rule-id: san-escape
    pattern:
      method: "^escape$"
    effectiveness: per-tag
    tags: [user-input]
`)
	lm := buildLoginModel(t, true)
	res := analyze(t, lm, policy, config.NewDefaultOptions())

	flows := res.Flows.Sorted()
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	f := flows[0]
	if f.Sanitized {
		t.Error("the pii tag survives the per-tag sanitizer")
	}
	if !reflect.DeepEqual(f.Tags, []string{"pii"}) {
		t.Errorf("only pii should survive, got %v", f.Tags)
	}
}

// A sanitizer on one path must not hide an unsanitized path to the same sink.
func TestUnsanitizedPathWins(t *testing.T) {
	b := semantic.NewBuilder("d")
	fn := b.AddEntity(semantic.EntityFunction, 1, "login", semantic.Position{})
	src := b.AddEntity(semantic.EntityValue, 2, "user_id", semantic.Position{})
	escCall := b.AddEntity(semantic.EntityCallSite, 3, "escape", semantic.Position{})
	escRes := b.AddEntity(semantic.EntityValue, 4, "escaped", semantic.Position{})
	execCall := b.AddEntity(semantic.EntityCallSite, 5, "cursor.execute", semantic.Position{})
	sink := b.AddEntity(semantic.EntityValue, 6, "sql", semantic.Position{})

	b.AddValueNode(semantic.ValueNode{ID: src, Kind: semantic.ValueParam, Fn: fn,
		Call: semantic.InvalidEntity, Index: 0})
	b.AddValueNode(semantic.ValueNode{ID: escRes, Kind: semantic.ValueCallResult, Fn: fn,
		Call: escCall, Index: 0})
	b.AddValueNode(semantic.ValueNode{ID: sink, Kind: semantic.ValueCallArg, Fn: fn,
		Call: execCall, Index: 0})
	b.AddCallSite(semantic.CallSite{ID: escCall, Method: "escape", Caller: fn})
	b.AddCallSite(semantic.CallSite{ID: execCall, Method: "execute", Receiver: "cursor", Caller: fn})
	b.SetSignature(fn, semantic.Signature{Params: []semantic.Param{
		{Name: "user_id", Type: "string", Primitive: true, Resolved: true},
	}})
	b.AddFlowEdge(src, escRes, semantic.FlowCallArg, "")
	b.AddFlowEdge(escRes, sink, semantic.FlowDirect, "")
	b.AddFlowEdge(src, sink, semantic.FlowDirect, "")

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	res, err := Analyze(context.Background(), testLogger(t), m,
		parsePolicy(t, loginPolicy), config.NewDefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	flows := res.Flows.Sorted()
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	if flows[0].Sanitized {
		t.Error("an unsanitized path exists, the flow must be reported unsanitized")
	}
	want := []semantic.EntityID{src, sink}
	if !reflect.DeepEqual(flows[0].Path, want) {
		t.Errorf("the witness should avoid the sanitizing detour: %v, want %v", flows[0].Path, want)
	}
}

func TestRecursiveFlowTerminates(t *testing.T) {
	b := semantic.NewBuilder("rec")
	fn := b.AddEntity(semantic.EntityFunction, 1, "login", semantic.Position{})
	src := b.AddEntity(semantic.EntityValue, 2, "user_id", semantic.Position{})
	a := b.AddEntity(semantic.EntityValue, 3, "acc", semantic.Position{})
	execCall := b.AddEntity(semantic.EntityCallSite, 4, "cursor.execute", semantic.Position{})
	sink := b.AddEntity(semantic.EntityValue, 5, "sql", semantic.Position{})

	b.AddValueNode(semantic.ValueNode{ID: src, Kind: semantic.ValueParam, Fn: fn,
		Call: semantic.InvalidEntity, Index: 0})
	b.AddValueNode(semantic.ValueNode{ID: a, Kind: semantic.ValueAssign, Fn: fn,
		Call: semantic.InvalidEntity})
	b.AddValueNode(semantic.ValueNode{ID: sink, Kind: semantic.ValueCallArg, Fn: fn,
		Call: execCall, Index: 0})
	b.AddCallSite(semantic.CallSite{ID: execCall, Method: "execute", Receiver: "cursor", Caller: fn})
	b.SetSignature(fn, semantic.Signature{Params: []semantic.Param{
		{Name: "user_id", Type: "string", Primitive: true, Resolved: true},
	}})
	// src -> a -> src is a cycle; a -> sink leaves it
	b.AddFlowEdge(src, a, semantic.FlowDirect, "")
	b.AddFlowEdge(a, src, semantic.FlowDirect, "")
	b.AddFlowEdge(a, sink, semantic.FlowDirect, "")

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	res, err := Analyze(context.Background(), testLogger(t), m,
		parsePolicy(t, loginPolicy), config.NewDefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Incomplete {
		t.Error("a cycle must not exhaust the budget")
	}
	if res.Flows.Len() != 1 {
		t.Errorf("expected 1 flow through the cycle, got %d", res.Flows.Len())
	}
}

func TestDeterministicOutput(t *testing.T) {
	policy := parsePolicy(t, loginPolicy)
	opts := config.NewDefaultOptions()

	run := func() []Flow {
		lm := buildLoginModel(t, false)
		res, err := Analyze(context.Background(), testLogger(t), lm.model, policy, opts)
		if err != nil {
			t.Fatal(err)
		}
		return res.Flows.Sorted()
	}
	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d differs: %v vs %v", i, first, got)
		}
	}
}

func TestIterationBudgetExceeded(t *testing.T) {
	lm := buildLoginModel(t, true)
	opts := config.NewDefaultOptions()
	opts.MaxIterations = 1

	res, err := Analyze(context.Background(), testLogger(t), lm.model,
		parsePolicy(t, loginPolicy), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Incomplete {
		t.Error("a one-derivation budget cannot complete this run")
	}
	found := false
	for _, w := range res.Warnings {
		if errors.Is(w, ErrPropagationIncomplete) {
			found = true
		}
	}
	if !found {
		t.Error("an incomplete run must carry the incompleteness warning")
	}
}

func TestContextCancellation(t *testing.T) {
	lm := buildLoginModel(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Analyze(ctx, testLogger(t), lm.model,
		parsePolicy(t, loginPolicy), config.NewDefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Incomplete {
		t.Error("a cancelled context must flag the run incomplete")
	}
}

func TestTagDomainBounded(t *testing.T) {
	p := &config.Policy{PolicyID: "big"}
	for i := 0; i < MaxTags+1; i++ {
		p.Sources = append(p.Sources, config.SourceRule{
			RuleID: "r" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Tags:   []string{"tag-" + string(rune('a'+i%26)) + string(rune('a'+i/26))},
		})
	}
	if _, err := NewTagDomain(p); err == nil {
		t.Errorf("expected an error for more than %d tags", MaxTags)
	}
}
