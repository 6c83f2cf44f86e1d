package api

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/dashbot/internal/chatbot"
)

func newTestMCPDeps(t *testing.T) MCPDeps {
	t.Helper()
	store := newTestStore(t)
	resolver := chatbot.NewResolver(store, chatbot.NewMatcher(chatbot.DefaultTable(), chatbot.DefaultThreshold))
	return MCPDeps{Resolver: resolver, Store: store, OwnerID: "local"}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

type askResult struct {
	Response       string        `json:"response"`
	ConversationID string        `json:"conversation_id"`
	Match          chatbot.Match `json:"match"`
}

func callAsk(t *testing.T, deps MCPDeps, args map[string]interface{}) askResult {
	t.Helper()
	result, err := mcpAsk(deps)(context.Background(), makeCallToolRequest("ask", args))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	var out askResult
	if err := json.Unmarshal([]byte(toolText(t, result)), &out); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return out
}

func TestMCPTool_Ask(t *testing.T) {
	deps := newTestMCPDeps(t)

	first := callAsk(t, deps, map[string]interface{}{"message": "hello"})
	if first.ConversationID == "" {
		t.Fatal("expected a conversation id")
	}
	if first.Match.Kind != chatbot.MatchExact {
		t.Errorf("match kind = %q, want exact", first.Match.Kind)
	}

	second := callAsk(t, deps, map[string]interface{}{
		"message":         "thanks",
		"conversation_id": first.ConversationID,
	})
	if second.ConversationID != first.ConversationID {
		t.Errorf("conversation id = %q, want %q", second.ConversationID, first.ConversationID)
	}

	conv, err := deps.Store.GetConversation(context.Background(), "local", first.ConversationID)
	if err != nil {
		t.Fatalf("getting conversation: %v", err)
	}
	if len(conv.Messages) != 4 {
		t.Errorf("messages = %d, want 4", len(conv.Messages))
	}
}

func TestMCPTool_Ask_Errors(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpAsk(deps)

	for _, args := range []map[string]interface{}{
		{},
		{"message": "  "},
		{"message": "hi", "conversation_id": "missing"},
	} {
		result, err := handler(context.Background(), makeCallToolRequest("ask", args))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Errorf("args %v: expected tool error, got %s", args, toolText(t, result))
		}
	}
}

func TestMCPTool_ListConversations(t *testing.T) {
	deps := newTestMCPDeps(t)
	callAsk(t, deps, map[string]interface{}{"message": "hello"})
	callAsk(t, deps, map[string]interface{}{"message": "widgets"})

	result, err := mcpListConversations(deps)(context.Background(), makeCallToolRequest("list_conversations", map[string]interface{}{
		"limit": 1,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var summaries []map[string]any
	if err := json.Unmarshal([]byte(toolText(t, result)), &summaries); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(summaries))
	}
	if summaries[0]["messages"] != float64(2) {
		t.Errorf("messages = %v, want 2", summaries[0]["messages"])
	}
}

func TestMCPResource_Answers(t *testing.T) {
	deps := newTestMCPDeps(t)

	contents, err := mcpResourceAnswers(deps)(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "dashbot://answers"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var body struct {
		Fallback string           `json:"fallback"`
		Answers  []chatbot.Answer `json:"answers"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &body); err != nil {
		t.Fatalf("failed to parse answers JSON: %v", err)
	}
	if len(body.Answers) != chatbot.DefaultTable().Len() {
		t.Errorf("answers = %d, want %d", len(body.Answers), chatbot.DefaultTable().Len())
	}
	if body.Answers[0].Key != "hello" || body.Fallback != chatbot.DefaultFallback {
		t.Errorf("unexpected answers resource: first %q", body.Answers[0].Key)
	}
}

func TestMCPServer_ConcurrentAsks(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpAsk(deps)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler(context.Background(), makeCallToolRequest("ask", map[string]interface{}{
				"message": "charts",
			}))
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}

	convs, err := deps.Store.ListConversations(context.Background(), "local", 100, 0)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(convs) != 10 {
		t.Errorf("conversations = %d, want 10", len(convs))
	}
}
