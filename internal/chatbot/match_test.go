package chatbot

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", "hello"},
		{"  How TO create Dashboard \t\n", "how to create dashboard"},
		{"", ""},
		{"   ", ""},
		{"what's  up??", "what's  up??"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if twice := Normalize(Normalize(tt.in)); twice != Normalize(tt.in) {
			t.Errorf("Normalize not idempotent for %q: %q", tt.in, twice)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		key  string
		text string
		want float64
	}{
		{"identical multi-word", "how to create dashboard", "how to create dashboard", 1},
		{"three of four", "how to create dashboard", "how do i create a dashboard??", 0.75},
		{"no overlap", "sales metrics", "xyzzy plugh", 0},
		{"input word inside key word", "dashboard", "dash", 1},
		{"key word inside input word", "chart", "charts", 1},
		{"short input words over-match", "what is dashboard", "a i", 1},
		{"short input word partial", "sales metrics", "a", 0.5},
		{"empty key", "", "anything", 0},
		{"empty text", "hello", "", 0},
		{"duplicate key words count twice", "data data refresh", "data", 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.key, tt.text)
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.key, tt.text, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Score out of range: %v", got)
			}
		})
	}
}

func TestScore_SelfIsOne(t *testing.T) {
	for _, e := range DefaultTable().Entries() {
		if s := Score(e.Key, e.Key); s != 1 {
			t.Errorf("Score(%q, itself) = %v, want 1", e.Key, s)
		}
	}
}

func fixtureMatcher(t *testing.T, entries ...Answer) *Matcher {
	t.Helper()
	tbl, err := NewTable(entries, "fallback reply")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return NewMatcher(tbl, DefaultThreshold)
}

func TestResolve_ExactMatch(t *testing.T) {
	m := NewMatcher(DefaultTable(), DefaultThreshold)

	got := m.Resolve("hello")
	if got.Kind != MatchExact {
		t.Errorf("Kind = %q, want exact", got.Kind)
	}
	if got.Reply != "Hello! I'm your dashboard assistant. How can I help you today?" {
		t.Errorf("Reply = %q", got.Reply)
	}

	// Case and surrounding whitespace do not matter.
	if got := m.Resolve("  GOOD Morning "); got.Kind != MatchExact || got.Key != "good morning" {
		t.Errorf("Resolve(GOOD Morning) = %+v", got)
	}
}

func TestResolve_ExactBeatsFuzzy(t *testing.T) {
	// "what is analytics" comes first and shares the word; exact must win.
	m := fixtureMatcher(t,
		Answer{"what is analytics", "definition"},
		Answer{"analytics", "overview"},
	)
	got := m.Resolve("Analytics")
	if got.Kind != MatchExact || got.Reply != "overview" {
		t.Errorf("Resolve = %+v, want exact overview", got)
	}
}

func TestResolve_FuzzyScenario(t *testing.T) {
	// The input words "i" and "a" match any key word containing those
	// letters, so these keys are picked to stay below the threshold.
	m := fixtureMatcher(t,
		Answer{"bye", "bye"},
		Answer{"how to create dashboard", "create steps"},
		Answer{"good morning", "morning"},
	)

	got := m.Resolve("how do I create a dashboard??")
	if got.Kind != MatchFuzzy {
		t.Fatalf("Kind = %q, want fuzzy", got.Kind)
	}
	if got.Reply != "create steps" {
		t.Errorf("Reply = %q, want create steps", got.Reply)
	}
	if got.Score != 0.75 {
		t.Errorf("Score = %v, want 0.75", got.Score)
	}
}

func TestResolve_FallbackScenario(t *testing.T) {
	m := NewMatcher(DefaultTable(), DefaultThreshold)

	got := m.Resolve("xyzzy plugh")
	if got.Kind != MatchFallback {
		t.Errorf("Kind = %q, want fallback", got.Kind)
	}
	if got.Reply != DefaultFallback {
		t.Errorf("Reply = %q, want DefaultFallback", got.Reply)
	}
}

func TestResolve_ThresholdIsStrict(t *testing.T) {
	// "sales" matches one of two key words: exactly 0.5, which is not enough.
	m := fixtureMatcher(t, Answer{"sales metrics", "sales"})
	if got := m.Resolve("sales"); got.Kind != MatchFallback {
		t.Errorf("score 0.5 should fall back, got %+v", got)
	}
}

func TestSelectBest_TieKeepsFirst(t *testing.T) {
	m := fixtureMatcher(t,
		Answer{"export data", "first"},
		Answer{"data export", "second"},
	)
	got, ok := m.SelectBest("please export my data")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Reply != "first" {
		t.Errorf("Reply = %q, want first (earliest entry wins ties)", got.Reply)
	}
}

func TestSelectBest_HigherScoreReplaces(t *testing.T) {
	m := fixtureMatcher(t,
		Answer{"marketing dashboard features", "partial"},
		Answer{"marketing features", "full"},
	)
	got, ok := m.SelectBest("marketing features")
	if !ok || got.Reply != "full" {
		t.Errorf("SelectBest = %+v, %v; want full", got, ok)
	}
}

// The containment rule lets single-letter words match any key word holding
// that letter. With the built-in table this makes "hi" (second entry)
// score 1.0 for any message containing the word "i".
func TestResolve_DefaultTableShortWordOverMatch(t *testing.T) {
	m := NewMatcher(DefaultTable(), DefaultThreshold)

	got := m.Resolve("how do I create a dashboard??")
	if got.Kind != MatchFuzzy || got.Key != "hi" || got.Score != 1 {
		t.Errorf("Resolve = %+v, want fuzzy match on \"hi\" with score 1", got)
	}
}

func TestNewMatcher_ThresholdDefaults(t *testing.T) {
	for _, th := range []float64{0, -1, 1, 2} {
		m := NewMatcher(DefaultTable(), th)
		if m.threshold != DefaultThreshold {
			t.Errorf("NewMatcher(%v).threshold = %v, want %v", th, m.threshold, DefaultThreshold)
		}
	}
	if m := NewMatcher(DefaultTable(), 0.8); m.threshold != 0.8 {
		t.Errorf("threshold = %v, want 0.8", m.threshold)
	}
}

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable()
	if tbl.Len() != 50 {
		t.Errorf("Len = %d, want 50", tbl.Len())
	}
	entries := tbl.Entries()
	if entries[0].Key != "hello" || entries[len(entries)-1].Key != "goodbye" {
		t.Errorf("unexpected order: first %q last %q", entries[0].Key, entries[len(entries)-1].Key)
	}
	for _, e := range entries {
		reply, ok := tbl.Lookup(e.Key)
		if !ok || reply != e.Reply {
			t.Errorf("Lookup(%q) = %q, %v", e.Key, reply, ok)
		}
	}
}

func TestNewTable_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Answer
		want    string
	}{
		{"empty", nil, "empty"},
		{"blank key", []Answer{{"  ", "x"}}, "empty key"},
		{"blank reply", []Answer{{"hi", ""}}, "empty reply"},
		{"duplicate after normalize", []Answer{{"Hi", "a"}, {" hi ", "b"}}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	tbl := DefaultTable()
	e := tbl.Entries()
	e[0].Reply = "mutated"
	if reply, _ := tbl.Lookup("hello"); reply == "mutated" {
		t.Error("Entries must not expose internal state")
	}
	if tbl.Entries()[0].Reply == "mutated" {
		t.Error("Entries must return a copy")
	}
}
