package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kalambet/dashbot/internal/api"
	"github.com/kalambet/dashbot/internal/chatbot"
	"github.com/kalambet/dashbot/internal/storage"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"No conversation with id x","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

// plainOutput disables ANSI colors for the duration of the test.
func plainOutput(t *testing.T) {
	t.Helper()
	old := noColor
	noColor = true
	t.Cleanup(func() { noColor = old })
}

func TestAskCommand_Request(t *testing.T) {
	plainOutput(t)
	ts := newTestServer(t, map[string]string{
		"POST /api/chatbot/chat": `{"response":"Hi!","conversation":{"_id":"conv-123","messages":[]},"match":{"kind":"exact","key":"hi","score":1}}`,
	})

	var out bytes.Buffer
	if err := runAsk(ctx, ts.client(), &out, "hi", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "bot: Hi!") {
		t.Errorf("output = %q, want the reply", out.String())
	}
	if !strings.Contains(out.String(), "conversation conv-123") {
		t.Errorf("output = %q, want the new conversation id", out.String())
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "POST" || r.Path != "/api/chatbot/chat" {
		t.Errorf("request = %s %s", r.Method, r.Path)
	}
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["message"] != "hi" {
		t.Errorf("body.message = %v, want hi", body["message"])
	}
}

func TestAskCommand_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"ask"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing message")
	}
	if !strings.Contains(err.Error(), "requires at least 1 arg") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestNoColorFlag(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if result := colorize(colorRed, "test"); strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	if result := colorize(colorRed, "test"); !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestDecodeJSON_ErrorResponse(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/api/chatbot/conversations/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var v any
	err = decodeJSON(resp, &v)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "No conversation with id x") {
		t.Errorf("error = %q, want status and server message", err)
	}
}

func TestCountLabel(t *testing.T) {
	tests := []struct {
		count, limit int
		want         string
	}{
		{0, 100, "0"},
		{42, 100, "42"},
		{100, 100, "100+"},
	}
	for _, tt := range tests {
		if got := countLabel(tt.count, tt.limit); got != tt.want {
			t.Errorf("countLabel(%d, %d) = %q, want %q", tt.count, tt.limit, got, tt.want)
		}
	}
}

func TestAnswersMatch(t *testing.T) {
	plainOutput(t)
	m := chatbot.NewMatcher(chatbot.DefaultTable(), chatbot.DefaultThreshold)

	var out bytes.Buffer
	if err := runAnswersMatch(&out, m, "Hello"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Match: exact", "Key: hello", "Reply: Hello!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output = %q, want %q", out.String(), want)
		}
	}

	out.Reset()
	runAnswersMatch(&out, m, "xyzzy plugh")
	if !strings.Contains(out.String(), "Match: fallback") || strings.Contains(out.String(), "Key:") {
		t.Errorf("fallback output = %q", out.String())
	}
}

func TestAnswersList(t *testing.T) {
	plainOutput(t)
	var out bytes.Buffer
	if err := runAnswersList(&out, chatbot.DefaultTable()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != chatbot.DefaultTable().Len() {
		t.Errorf("lines = %d, want %d", len(lines), chatbot.DefaultTable().Len())
	}
	if !strings.Contains(lines[0], "hello") {
		t.Errorf("first line = %q", lines[0])
	}
}

// TestConversationFlow drives the commands against the real API router.
func TestConversationFlow(t *testing.T) {
	plainOutput(t)
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	const secret = "cli-test-secret"
	resolver := chatbot.NewResolver(store, chatbot.NewMatcher(chatbot.DefaultTable(), chatbot.DefaultThreshold))
	srv := httptest.NewServer(api.NewRouter(api.RouterDeps{
		Chat: api.ChatDeps{Resolver: resolver, Store: store, Secret: secret},
	}))
	t.Cleanup(srv.Close)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.Claims{
		UserID:           "cli-user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	c := &apiClient{baseURL: srv.URL, token: tok, httpClient: srv.Client()}

	var out bytes.Buffer
	if err := runAsk(ctx, c, &out, "hello", ""); err != nil {
		t.Fatalf("ask: %v", err)
	}

	convs, err := store.ListConversations(ctx, "cli-user", 10, 0)
	if err != nil || len(convs) != 1 {
		t.Fatalf("stored conversations = %d, %v", len(convs), err)
	}
	id := convs[0].ID

	out.Reset()
	if err := runAsk(ctx, c, &out, "thanks", id); err != nil {
		t.Fatalf("ask again: %v", err)
	}
	if strings.Contains(out.String(), "conversation ") {
		t.Errorf("continuing a conversation should not print its id again: %q", out.String())
	}

	out.Reset()
	if err := runConversationsList(ctx, c, &out, 20); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), shortID(id)) || !strings.Contains(out.String(), "4 msgs") {
		t.Errorf("list output = %q", out.String())
	}

	out.Reset()
	if err := runConversationsShow(ctx, c, &out, id, false); err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.Count(out.String(), "you:") != 2 || strings.Count(out.String(), "bot:") != 2 {
		t.Errorf("show output = %q", out.String())
	}

	if err := runConversationsDelete(ctx, c, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := runConversationsDelete(ctx, c, id); err == nil {
		t.Error("second delete should fail")
	}

	out.Reset()
	if err := runConversationsList(ctx, c, &out, 20); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "No conversations found.") {
		t.Errorf("list output after delete = %q", out.String())
	}
}
