package xlform

import (
	"regexp"
	"strings"
)

// ColumnMatcher resolves a formula token to an input column. Implementations
// define how tolerant the lookup is; the default FuzzyMatcher keeps the loose
// matching the tool has always used, StrictMatcher is the conservative
// alternative.
type ColumnMatcher interface {
	// Match returns the index of the matching column in t, or false.
	Match(name string, t Table) (int, bool)
}

// FuzzyMatcher matches a token against column names by exact match, then
// case-insensitive match, then substring containment in either direction.
// Substring matching takes the first hit, which is ambiguous when several
// columns share a word; this is a known limitation kept for compatibility
// with existing configurations.
type FuzzyMatcher struct{}

// Match implements ColumnMatcher.
func (FuzzyMatcher) Match(name string, t Table) (int, bool) {
	if idx, ok := (StrictMatcher{}).Match(name, t); ok {
		return idx, true
	}
	lower := strings.ToLower(name)
	for i, c := range t.Columns {
		colLower := strings.ToLower(c.Name)
		if strings.Contains(colLower, lower) || strings.Contains(lower, colLower) {
			return i, true
		}
	}
	return 0, false
}

// StrictMatcher matches a token against column names by exact match, then
// case-insensitive match. It never matches on substrings.
type StrictMatcher struct{}

// Match implements ColumnMatcher.
func (StrictMatcher) Match(name string, t Table) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// quotedTokenPattern captures quoted column references like "Net Pay".
var quotedTokenPattern = regexp.MustCompile(`"([^"]+)"`)

// wordRunPattern captures unquoted word-like runs: a letter, optionally
// followed by letters, digits, underscores, spaces, or hyphens ending in a
// letter, digit, or underscore. The tail is optional so single-letter column
// names match; the middle is deliberately permissive so multi-word column
// names are captured as a single candidate.
var wordRunPattern = regexp.MustCompile(`\b[A-Za-z](?:[A-Za-z0-9_\s-]*[A-Za-z0-9_])?\b`)

// reservedWords are operator and function names that are never column
// references.
var reservedWords = map[string]struct{}{
	"and": {}, "or": {}, "not": {}, "abs": {},
	"sum": {}, "avg": {}, "max": {}, "min": {},
}

// isReserved reports whether a token is a reserved word (case-insensitive).
func isReserved(tok string) bool {
	_, ok := reservedWords[strings.ToLower(tok)]
	return ok
}

// extractTokens returns the candidate column-name tokens of a formula body,
// deduplicated in first-seen order. Quoted substrings are always kept whole.
// An unquoted run is kept whole only when isKnown confirms it names a column;
// otherwise the run is split at hyphens and spaces so arithmetic like
// "A - B" yields the operand tokens rather than one bogus multi-word name.
func extractTokens(body string, isKnown func(string) bool) []string {
	var tokens []string
	seen := make(map[string]struct{})
	add := func(tok string) {
		tok = strings.TrimSpace(tok)
		if tok == "" || isReserved(tok) {
			return
		}
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	for _, m := range quotedTokenPattern.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	for _, run := range wordRunPattern.FindAllString(body, -1) {
		for _, tok := range splitRun(run, isKnown) {
			add(tok)
		}
	}
	return tokens
}

// splitRun narrows a permissive word run down to plausible column names. A run
// that names a known column stays whole. Otherwise it is split at hyphens,
// then any piece that still is not a known column is split into single words.
func splitRun(run string, isKnown func(string) bool) []string {
	run = strings.TrimSpace(run)
	if run == "" {
		return nil
	}
	if isKnown(run) || !strings.ContainsAny(run, " \t-") {
		return []string{run}
	}
	var tokens []string
	for _, piece := range strings.Split(run, "-") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if isKnown(piece) || !strings.ContainsAny(piece, " \t") {
			tokens = append(tokens, piece)
			continue
		}
		tokens = append(tokens, strings.Fields(piece)...)
	}
	return tokens
}
