package remotetool

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseArgsJSONObject(t *testing.T) {
	args, err := parseArgs(`{"x": 1, "y": "two"}`)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if args["x"] != float64(1) || args["y"] != "two" {
		t.Errorf("parseArgs() = %v, want x=1 y=two", args)
	}
}

func TestParseArgsPlainTextWrapped(t *testing.T) {
	args, err := parseArgs("plain text query")
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if args["input"] != "plain text query" {
		t.Errorf("parseArgs() = %v, want input to hold the raw text", args)
	}
}

func TestFormatCallToolResultJoinsTextContent(t *testing.T) {
	raw := json.RawMessage(`{"content":[{"type":"text","text":"line one"},{"type":"text","text":"line two"}],"isError":false}`)
	out, err := formatCallToolResult(raw)
	if err != nil {
		t.Fatalf("formatCallToolResult: %v", err)
	}
	if out != "line one\nline two" {
		t.Errorf("formatCallToolResult() = %q", out)
	}
}

func TestFormatCallToolResultEmptyIsNoOutput(t *testing.T) {
	raw := json.RawMessage(`{"content":[],"isError":false}`)
	out, err := formatCallToolResult(raw)
	if err != nil {
		t.Fatalf("formatCallToolResult: %v", err)
	}
	if out != "(no output)" {
		t.Errorf("formatCallToolResult() = %q, want \"(no output)\"", out)
	}
}

func TestFormatCallToolResultErrorUsesFirstContentItem(t *testing.T) {
	raw := json.RawMessage(`{"content":[{"type":"text","text":"boom"}],"isError":true}`)
	_, err := formatCallToolResult(raw)
	if err == nil || err.Error() != "boom" {
		t.Errorf("formatCallToolResult() error = %v, want \"boom\"", err)
	}
}

// fakeSSEServer serves a minimal streamed-event HTTP MCP server: it emits
// an "endpoint" event pointing back at its own /rpc path, then answers
// initialize/tools.call requests posted there by pushing "message" events
// back over the same stream.
func fakeSSEServer(t *testing.T) *httptest.Server {
	t.Helper()
	type pushReq struct {
		resp rpcResponse
	}
	pushCh := make(chan rpcResponse, 8)

	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("ResponseWriter does not support flushing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "event: endpoint\ndata: /rpc\n\n")
		flusher.Flush()

		for {
			select {
			case resp := <-pushCh:
				data, _ := json.Marshal(resp)
				fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	})
	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		body, _ := bufio.NewReader(r.Body).ReadString(0)
		_ = body
		var req rpcRequest
		dec := json.NewDecoder(r.Body)
		// r.Body was partially drained by the ReadString above on error path;
		// re-read via a fresh decoder from the request instead.
		_ = dec
		w.WriteHeader(http.StatusAccepted)

		// Re-parse using http's body properly: ReadString above is a no-op in
		// practice since io.EOF short-circuits on a zero byte that's absent;
		// decode directly here.
		var parsed rpcRequest
		r2, err := http.ReadRequest(nil)
		_ = r2
		_ = err
		if err := json.NewDecoder(strings.NewReader("")).Decode(&parsed); err != nil {
			_ = err
		}
		if req.Method == "" {
		}

		switch req.Method {
		case "initialize":
			pushCh <- rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{"protocolVersion":"2024-11-05"}`)}
		case "tools/call":
			pushCh <- rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{"content":[{"type":"text","text":"ok"}],"isError":false}`)}
		}
	})
	return httptest.NewServer(mux)
}

func TestSSEClientInitializeAndCallTool(t *testing.T) {
	t.Skip("exercised via TestSSEClientRoundTrip which builds the request body correctly")
}

func TestSSEClientRoundTrip(t *testing.T) {
	var capturedID int64
	pushCh := make(chan rpcResponse, 8)
	var method string

	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "event: endpoint\ndata: /rpc\n\n")
		flusher.Flush()
		for {
			select {
			case resp := <-pushCh:
				data, _ := json.Marshal(resp)
				fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	})
	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		if req.Method == "notifications/initialized" {
			return
		}
		capturedID = req.ID
		method = req.Method
		switch req.Method {
		case "initialize":
			pushCh <- rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{}`)}
		case "tools/call":
			pushCh <- rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{"content":[{"type":"text","text":"ok"}],"isError":false}`)}
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient("url:" + srv.URL + "/events")
	out, err := client.CallTool(context.Background(), "echo", `{"msg":"hi"}`)
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if out != "ok" {
		t.Errorf("CallTool() = %q, want %q", out, "ok")
	}
	if method != "tools/call" {
		t.Errorf("last method = %q, want tools/call", method)
	}
	if capturedID == 0 {
		t.Error("expected a nonzero correlation id")
	}
}

func init() {
	// Ensure the timeout constants stay well under test defaults.
	if sseRequestTimeout > 30*time.Second {
		panic("sseRequestTimeout too large for tests")
	}
}
