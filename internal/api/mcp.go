package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/dashbot/internal/chatbot"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Resolver *chatbot.Resolver
	Store    ConversationStore
	OwnerID  string // every MCP turn runs as this user
	Version  string
}

// NewMCPServer creates an MCP server exposing the chatbot as tools and the
// answer table as a resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"dashbot",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("dashbot answers questions about dashboard features from a fixed set of replies."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask the dashboard assistant a question. Continues a conversation when conversation_id is given."),
			mcp.WithString("message", mcp.Description("The question to ask"), mcp.Required()),
			mcp.WithString("conversation_id", mcp.Description("Existing conversation to continue")),
		),
		mcpAsk(deps),
	)

	s.AddTool(
		mcp.NewTool("list_conversations",
			mcp.WithDescription("List stored conversations, most recently updated first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of conversations (default 10)")),
		),
		mcpListConversations(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"dashbot://answers",
			"Answer Table",
			mcp.WithResourceDescription("The canned answers the assistant picks from, in match order"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceAnswers(deps),
	)

	return s
}

func mcpAsk(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}
		convID := req.GetString("conversation_id", "")

		res, err := deps.Resolver.Send(ctx, chatbot.Turn{
			OwnerID:        deps.OwnerID,
			ConversationID: convID,
			Message:        message,
		})
		switch {
		case errors.Is(err, chatbot.ErrValidation):
			return mcpError("message is required"), nil
		case errors.Is(err, chatbot.ErrNotFound):
			return mcpError(fmt.Sprintf("no conversation with id %s", convID)), nil
		case err != nil:
			return mcpError(fmt.Sprintf("ask failed: %v", err)), nil
		}

		b, err := json.Marshal(struct {
			Response       string        `json:"response"`
			ConversationID string        `json:"conversation_id"`
			Match          chatbot.Match `json:"match"`
		}{res.Reply, res.Conversation.ID, res.Match})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListConversations(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		convs, err := deps.Store.ListConversations(ctx, deps.OwnerID, limit, 0)
		if err != nil {
			return mcpError(fmt.Sprintf("listing conversations failed: %v", err)), nil
		}

		type conversationSummary struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			Messages  int    `json:"messages"`
			UpdatedAt string `json:"updated_at"`
		}

		summaries := make([]conversationSummary, len(convs))
		for i, c := range convs {
			summaries[i] = conversationSummary{
				ID:        c.ID,
				Title:     c.Title,
				Messages:  len(c.Messages),
				UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal conversations: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceAnswers(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		table := deps.Resolver.Matcher().Table()
		b, err := json.Marshal(struct {
			Fallback string           `json:"fallback"`
			Answers  []chatbot.Answer `json:"answers"`
		}{table.Fallback(), table.Entries()})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal answers: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
