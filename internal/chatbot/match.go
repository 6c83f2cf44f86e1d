package chatbot

// DefaultThreshold is the score an answer must beat to be chosen by the
// fuzzy matcher.
const DefaultThreshold = 0.5

// MatchKind says how a reply was chosen.
type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchFallback MatchKind = "fallback"
)

// Match is the outcome of resolving a message against the answer table.
type Match struct {
	Reply string    `json:"-"`
	Kind  MatchKind `json:"kind"`
	Key   string    `json:"key,omitempty"`
	Score float64   `json:"score"`
}

// Matcher resolves messages to replies. It is safe for concurrent use.
type Matcher struct {
	table     *Table
	threshold float64
}

// NewMatcher returns a Matcher over table. A threshold outside (0, 1)
// selects DefaultThreshold.
func NewMatcher(table *Table, threshold float64) *Matcher {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{table: table, threshold: threshold}
}

// Table returns the answer table the matcher reads from.
func (m *Matcher) Table() *Table { return m.table }

// Resolve picks the reply for message: an exact key match first, then the
// best fuzzy match, then the fallback.
func (m *Matcher) Resolve(message string) Match {
	normalized := Normalize(message)

	if reply, ok := m.table.Lookup(normalized); ok {
		return Match{Reply: reply, Kind: MatchExact, Key: normalized, Score: 1}
	}
	if best, ok := m.SelectBest(normalized); ok {
		return best
	}
	return Match{Reply: m.table.Fallback(), Kind: MatchFallback}
}

// SelectBest scores every answer against normalized and returns the
// highest one strictly above the threshold. Ties keep the earlier answer.
func (m *Matcher) SelectBest(normalized string) (Match, bool) {
	var best Match
	bestScore := 0.0
	found := false
	for _, e := range m.table.entries {
		s := Score(e.Key, normalized)
		if s > bestScore && s > m.threshold {
			bestScore = s
			best = Match{Reply: e.Reply, Kind: MatchFuzzy, Key: e.Key, Score: s}
			found = true
		}
	}
	return best, found
}
