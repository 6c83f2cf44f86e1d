package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/dashbot/internal/chatbot"
	"github.com/kalambet/dashbot/internal/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// ConversationStore is the read/delete side of conversation storage used
// by the HTTP and MCP layers. Writes go through the resolver.
type ConversationStore interface {
	GetConversation(ctx context.Context, ownerID, id string) (storage.Conversation, error)
	ListConversations(ctx context.Context, ownerID string, limit, offset int) ([]storage.Conversation, error)
	DeleteConversation(ctx context.Context, ownerID, id string) error
}

// ChatDeps holds what the chatbot routes need.
type ChatDeps struct {
	Resolver *chatbot.Resolver
	Store    ConversationStore
	Secret   string
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response     string               `json:"response"`
	Conversation storage.Conversation `json:"conversation"`
	Match        chatbot.Match        `json:"match"`
}

// ConversationList is the body of GET /conversations.
type ConversationList struct {
	Count         int                    `json:"count"`
	Conversations []storage.Conversation `json:"conversations"`
}

// NewChatHandler returns the authenticated chatbot routes.
func NewChatHandler(deps ChatDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(JWTAuth(deps.Secret))

	r.Post("/chat", handleChat(deps))
	r.Get("/conversations", handleListConversations(deps))
	r.Get("/conversations/{id}", handleGetConversation(deps))
	r.Delete("/conversations/{id}", handleDeleteConversation(deps))

	return r
}

func handleChat(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("chat turn rejected", "reason", "invalid body", "error", err)
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		owner, _ := OwnerFromContext(r.Context())
		res, err := deps.Resolver.Send(r.Context(), chatbot.Turn{
			OwnerID:        owner,
			ConversationID: req.ConversationID,
			Message:        req.Message,
		})
		if err != nil {
			writeChatError(w, req.ConversationID, err)
			return
		}

		writeJSON(w, ChatResponse{
			Response:     res.Reply,
			Conversation: res.Conversation,
			Match:        res.Match,
		})
	}
}

func writeChatError(w http.ResponseWriter, conversationID string, err error) {
	var perr *chatbot.PersistenceError
	switch {
	case errors.Is(err, chatbot.ErrMissingOwner):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "Missing caller identity")
	case errors.Is(err, chatbot.ErrValidation):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "Please provide a message")
	case errors.Is(err, chatbot.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "No conversation with id %s", conversationID)
	case errors.As(err, &perr):
		httpError(w, http.StatusInternalServerError, "api_error", "Error processing your request")
	default:
		slog.Error("unexpected chat error", "error", err)
		httpError(w, http.StatusInternalServerError, "api_error", "Error processing your request")
	}
}

func handleListConversations(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", defaultListLimit, maxListLimit)
		if limit == 0 {
			limit = defaultListLimit
		}
		offset := parseIntParam(r, "offset", 0, 0)

		owner, _ := OwnerFromContext(r.Context())
		convs, err := deps.Store.ListConversations(r.Context(), owner, limit, offset)
		if err != nil {
			slog.Error("listing conversations failed", "owner", owner, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list conversations: %v", err)
			return
		}
		if convs == nil {
			convs = []storage.Conversation{}
		}

		writeJSON(w, ConversationList{Count: len(convs), Conversations: convs})
	}
}

func handleGetConversation(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		owner, _ := OwnerFromContext(r.Context())

		conv, err := deps.Store.GetConversation(r.Context(), owner, id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "No conversation with id %s", id)
			return
		}
		if err != nil {
			slog.Error("getting conversation failed", "conversation_id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get conversation: %v", err)
			return
		}

		writeJSON(w, map[string]any{"conversation": conv})
	}
}

func handleDeleteConversation(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		owner, _ := OwnerFromContext(r.Context())

		err := deps.Store.DeleteConversation(r.Context(), owner, id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "No conversation with id %s", id)
			return
		}
		if err != nil {
			slog.Error("deleting conversation failed", "conversation_id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete conversation: %v", err)
			return
		}

		writeJSON(w, map[string]string{"msg": "Conversation deleted successfully"})
	}
}
