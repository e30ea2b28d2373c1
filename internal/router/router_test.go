package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/session"
	"github.com/raro42/hearthhub/internal/tools"
)

func newTestRouter(t *testing.T, fake *llm.FakeProvider) *Router {
	t.Helper()
	return &Router{
		LLM:       fake,
		Catalog:   &catalog.Catalog{Models: []catalog.Model{{Name: "fake-model:latest", Capability: catalog.CapabilityGeneral, ParameterBillion: 7}}},
		Sessions:  session.New(t.TempDir()),
		Tasks:     nil,
		Schedules: nil,
	}
}

func TestAnswer_FastPath_SkipsExecutionRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<title>Example Domain</title>"))
	}))
	defer srv.Close()

	fake := &llm.FakeProvider{Replies: []string{
		"RECOMMEND: FETCH_URL: " + srv.URL,
		"The title is Example Domain.",
	}}
	r := newTestRouter(t, fake)
	r.HTTPClient = srv.Client()

	reply, err := r.Answer(context.Background(), Params{Question: "fetch the page and tell me the title"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if reply != "The title is Example Domain." {
		t.Errorf("reply = %q", reply)
	}

	// Exactly two LLM calls: the plan, then the post-tool-result call. No
	// separate execution request since the plan already had a tool line.
	if len(fake.Requests) != 2 {
		t.Fatalf("LLM calls = %d, want 2", len(fake.Requests))
	}
	lastUserTurn := fake.Requests[1].Messages[len(fake.Requests[1].Messages)-1]
	if !strings.Contains(lastUserTurn.Content, "Here is the page content") {
		t.Errorf("tool result not fed back as expected: %q", lastUserTurn.Content)
	}
}

func TestAnswer_PlanThenExecute_NoToolLine(t *testing.T) {
	fake := &llm.FakeProvider{Replies: []string{
		"RECOMMEND: just answer directly",
		"2 + 2 is 4.",
	}}
	r := newTestRouter(t, fake)

	reply, err := r.Answer(context.Background(), Params{Question: "what is 2+2?"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if reply != "2 + 2 is 4." {
		t.Errorf("reply = %q", reply)
	}
	if len(fake.Requests) != 2 {
		t.Fatalf("LLM calls = %d, want 2 (plan + execute)", len(fake.Requests))
	}
}

func TestAnswer_IterationCapReachedReturnsLastReply(t *testing.T) {
	fake := &llm.FakeProvider{Replies: []string{
		"RECOMMEND: investigate",
		"RUN_CMD: date",
	}}
	r := newTestRouter(t, fake)
	r.AllowLocalCommands = true

	reply, err := r.Answer(context.Background(), Params{Question: "loop forever", MaxIterations: 2})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if reply != "RUN_CMD: date" {
		t.Errorf("reply = %q, want the last assistant reply %q", reply, "RUN_CMD: date")
	}
	// plan + execute + 2 iterations = 4 calls total (each iteration re-asks
	// the model, and the fake keeps replying the same tool line).
	if len(fake.Requests) != 4 {
		t.Fatalf("LLM calls = %d, want 4", len(fake.Requests))
	}
}

func TestAnswer_RejectsUnknownExplicitModel(t *testing.T) {
	fake := &llm.FakeProvider{}
	r := newTestRouter(t, fake)

	_, err := r.Answer(context.Background(), Params{Question: "hi", Model: "nonexistent:latest"})
	if err == nil {
		t.Fatal("expected error for unknown explicit model")
	}
	if len(fake.Requests) != 0 {
		t.Errorf("LLM was called despite invalid model: %d calls", len(fake.Requests))
	}
}

func TestAnswer_MultiAgentTranscriptAppendedOnShortFinalReply(t *testing.T) {
	// The recording of (label, reply) pairs across AGENT invocations is
	// exercised at the tools package level; here we verify the append
	// condition and formatting the router applies once the loop ends.
	if !isShortOrGenericAck("ok") {
		t.Error("short generic ack should trigger transcript append")
	}
	if isShortOrGenericAck(strings.Repeat("x", 600)) {
		t.Error("long reply should not be treated as a generic ack")
	}
	transcript := []tools.AgentTurn{
		{Label: "alice", Reply: "alice's answer"},
		{Label: "bob", Reply: "bob's answer"},
	}
	out := appendTranscript("ok", transcript)
	if !strings.Contains(out, "alice's answer") || !strings.Contains(out, "bob's answer") {
		t.Errorf("transcript not embedded: %q", out)
	}
}

func TestEstimateTokens_ContextReduction(t *testing.T) {
	fake := &llm.FakeProvider{Context: 2000, Replies: []string{"a short summary"}}
	r := newTestRouter(t, fake)

	smallBody := "short body"
	reduced := r.reduceForContext(context.Background(), "fake-model:latest", smallBody, nil, Params{}, nil)
	if reduced != smallBody {
		t.Errorf("small body should pass through unchanged, got %q", reduced)
	}

	bigBody := strings.Repeat("word ", 5000)
	reduced = r.reduceForContext(context.Background(), "fake-model:latest", bigBody, nil, Params{}, nil)
	if len(reduced) >= len(bigBody) {
		t.Errorf("large body should be reduced: got %d chars from %d", len(reduced), len(bigBody))
	}
}
