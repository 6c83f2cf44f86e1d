package chatbot

import (
	"errors"
	"fmt"
)

// DefaultFallback is returned when no answer scores above the threshold.
const DefaultFallback = "I'm a dashboard assistant with limited knowledge. I can help you with dashboard features, analytics, sales, marketing, finance, operations, widgets, charts, and navigation. Try asking about specific dashboard topics!"

// Answer maps a canonical phrase to its canned reply.
type Answer struct {
	Key   string `json:"key" yaml:"key"`
	Reply string `json:"reply" yaml:"reply"`
}

// Table is an immutable, ordered set of answers. Order matters: when two
// answers score the same, the earlier one wins.
type Table struct {
	entries  []Answer
	byKey    map[string]string
	fallback string
}

// NewTable builds a Table from entries in the given order. Keys are
// normalized; empty or duplicate keys are rejected. An empty fallback
// selects DefaultFallback.
func NewTable(entries []Answer, fallback string) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("answer table is empty")
	}
	if fallback == "" {
		fallback = DefaultFallback
	}

	t := &Table{
		entries:  make([]Answer, 0, len(entries)),
		byKey:    make(map[string]string, len(entries)),
		fallback: fallback,
	}
	for i, e := range entries {
		key := Normalize(e.Key)
		if key == "" {
			return nil, fmt.Errorf("answer %d: empty key", i)
		}
		if e.Reply == "" {
			return nil, fmt.Errorf("answer %q: empty reply", key)
		}
		if _, dup := t.byKey[key]; dup {
			return nil, fmt.Errorf("answer %q: duplicate key", key)
		}
		t.byKey[key] = e.Reply
		t.entries = append(t.entries, Answer{Key: key, Reply: e.Reply})
	}
	return t, nil
}

// MustTable is NewTable for literal tables known to be valid.
func MustTable(entries []Answer, fallback string) *Table {
	t, err := NewTable(entries, fallback)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the reply whose key equals normalized exactly.
func (t *Table) Lookup(normalized string) (string, bool) {
	reply, ok := t.byKey[normalized]
	return reply, ok
}

// Entries returns a copy of the answers in table order.
func (t *Table) Entries() []Answer {
	out := make([]Answer, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of answers.
func (t *Table) Len() int { return len(t.entries) }

// Fallback returns the reply used when nothing matches.
func (t *Table) Fallback() string { return t.fallback }
