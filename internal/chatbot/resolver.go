package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kalambet/dashbot/internal/storage"
)

const titleLength = 30

// ConversationStore is the persistence the resolver needs.
// Implemented by storage.Store.
type ConversationStore interface {
	CreateConversation(ctx context.Context, c storage.Conversation) error
	GetConversation(ctx context.Context, ownerID, id string) (storage.Conversation, error)
	AppendMessages(ctx context.Context, ownerID, id string, msgs []storage.Message, updatedAt time.Time) (storage.Conversation, error)
}

// TurnRecorder observes finished turns. Implemented by the metrics package.
type TurnRecorder interface {
	RecordTurn(kind string, outcome string)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// State is a step of a chat turn.
type State string

const (
	StateNewConversation      State = "NEW_CONVERSATION"
	StateExistingConversation State = "EXISTING_CONVERSATION"
	StateResolved             State = "RESOLVED"
	StateFailed               State = "FAILED"
)

// Turn is one incoming user message.
type Turn struct {
	OwnerID        string
	ConversationID string // empty starts a new conversation
	Message        string
}

// Result is a resolved and stored turn.
type Result struct {
	Reply        string
	Match        Match
	Conversation storage.Conversation
	Created      bool
}

// Resolver runs chat turns: match the message, append the user and
// assistant messages, persist.
type Resolver struct {
	store    ConversationStore
	matcher  *Matcher
	clock    Clock
	newID    func() string
	recorder TurnRecorder
	logger   *slog.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(r *Resolver) { r.clock = c }
}

// WithIDGenerator overrides how new conversation ids are made.
func WithIDGenerator(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// WithLogger overrides the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithRecorder reports every turn outcome to rec.
func WithRecorder(rec TurnRecorder) Option {
	return func(r *Resolver) { r.recorder = rec }
}

// NewResolver creates a Resolver over store and matcher.
func NewResolver(store ConversationStore, matcher *Matcher, opts ...Option) *Resolver {
	r := &Resolver{
		store:   store,
		matcher: matcher,
		clock:   realClock{},
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Matcher returns the matcher used for replies.
func (r *Resolver) Matcher() *Matcher { return r.matcher }

// Send resolves a reply for t and stores the user/assistant pair. Exactly
// one store write happens on success; none happens when validation or the
// conversation lookup fails.
func (r *Resolver) Send(ctx context.Context, t Turn) (Result, error) {
	log := r.logger.With("conversation_id", t.ConversationID, "message", truncate(t.Message, 80))

	if strings.TrimSpace(t.Message) == "" {
		log.Info("chat turn rejected", "reason", "empty message")
		return Result{}, fmt.Errorf("%w: please provide a message", ErrValidation)
	}
	if t.OwnerID == "" {
		log.Info("chat turn rejected", "reason", "missing owner")
		return Result{}, ErrMissingOwner
	}

	state := StateNewConversation
	var existing storage.Conversation
	if t.ConversationID != "" {
		state = StateExistingConversation
		c, err := r.store.GetConversation(ctx, t.OwnerID, t.ConversationID)
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("chat turn failed", "state", StateFailed, "error", err)
			r.record(MatchKind(""), StateFailed)
			return Result{}, fmt.Errorf("%w: no conversation with id %s", ErrNotFound, t.ConversationID)
		}
		if err != nil {
			log.Error("chat turn failed", "state", StateFailed, "error", err)
			r.record(MatchKind(""), StateFailed)
			return Result{}, &PersistenceError{ConversationID: t.ConversationID, Err: err}
		}
		existing = c
	}

	m := r.matcher.Resolve(t.Message)
	now := r.clock.Now().UTC()
	pair := []storage.Message{
		{Content: t.Message, Role: storage.RoleUser, Timestamp: now},
		{Content: m.Reply, Role: storage.RoleAssistant, Timestamp: now},
	}
	log.Debug("reply resolved", "state", state, "match", m.Kind, "key", m.Key, "score", m.Score)

	var (
		conv storage.Conversation
		err  error
	)
	switch state {
	case StateNewConversation:
		conv = storage.Conversation{
			ID:        r.newID(),
			OwnerID:   t.OwnerID,
			Title:     titleFor(t.Message),
			Messages:  pair,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = r.store.CreateConversation(ctx, conv)
	case StateExistingConversation:
		conv, err = r.store.AppendMessages(ctx, t.OwnerID, existing.ID, pair, now)
	}
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between load and append.
		log.Info("chat turn failed", "state", StateFailed, "error", err)
		r.record(m.Kind, StateFailed)
		return Result{}, fmt.Errorf("%w: no conversation with id %s", ErrNotFound, t.ConversationID)
	}
	if err != nil {
		log.Error("chat turn failed", "state", StateFailed, "stored_id", conv.ID, "error", err)
		r.record(m.Kind, StateFailed)
		return Result{}, &PersistenceError{ConversationID: conv.ID, Err: err}
	}

	r.record(m.Kind, StateResolved)
	return Result{
		Reply:        m.Reply,
		Match:        m,
		Conversation: conv,
		Created:      state == StateNewConversation,
	}, nil
}

func (r *Resolver) record(kind MatchKind, s State) {
	if r.recorder == nil {
		return
	}
	k := string(kind)
	if k == "" {
		k = "none"
	}
	r.recorder.RecordTurn(k, strings.ToLower(string(s)))
}

// titleFor keeps the first 30 characters of the message, always followed
// by "...".
func titleFor(message string) string {
	if utf8.RuneCountInString(message) <= titleLength {
		return message + "..."
	}
	return string([]rune(message)[:titleLength]) + "..."
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
