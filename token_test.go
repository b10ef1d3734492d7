package xlform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func knownSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestExtractTokens_SimpleIdentifiers(t *testing.T) {
	tokens := extractTokens("A + B * C", knownSet("A", "B", "C"))
	assert.Equal(t, []string{"A", "B", "C"}, tokens)
}

func TestExtractTokens_SingleLetterNames(t *testing.T) {
	assert.Equal(t, []string{"A"}, extractTokens("A", knownSet("A")))
	assert.Equal(t, []string{"A", "B"}, extractTokens("A + B", knownSet("A", "B")))
	assert.Equal(t, []string{"A", "B"}, extractTokens("A / B", knownSet("A", "B")))
}

func TestExtractTokens_MultiWordColumnKeptWhole(t *testing.T) {
	tokens := extractTokens("Net Pay * 2", knownSet("Net Pay"))
	assert.Equal(t, []string{"Net Pay"}, tokens)
}

func TestExtractTokens_QuotedNamesKeptWhole(t *testing.T) {
	tokens := extractTokens(`"Gross Pay" - "Total Tax"`, knownSet())
	assert.Contains(t, tokens, "Gross Pay")
	assert.Contains(t, tokens, "Total Tax")
}

func TestExtractTokens_UnknownRunSplitsAtHyphen(t *testing.T) {
	tokens := extractTokens("A - B", knownSet("A", "B"))
	assert.Equal(t, []string{"A", "B"}, tokens)
}

func TestExtractTokens_HyphenSplitKeepsMultiWordPieces(t *testing.T) {
	tokens := extractTokens("Gross Pay - Deductions", knownSet("Gross Pay", "Deductions"))
	assert.Equal(t, []string{"Gross Pay", "Deductions"}, tokens)
}

func TestExtractTokens_ReservedWordsDropped(t *testing.T) {
	tokens := extractTokens("abs + A", knownSet("A"))
	assert.Equal(t, []string{"A"}, tokens)

	tokens = extractTokens("MAX * Min", knownSet())
	assert.Empty(t, tokens)
}

func TestExtractTokens_Deduplicates(t *testing.T) {
	tokens := extractTokens("A + A + A", knownSet("A"))
	assert.Equal(t, []string{"A"}, tokens)
}

func TestFuzzyMatcher_Chain(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "Gross Pay"},
		{Name: "Net Pay"},
	}}

	idx, ok := FuzzyMatcher{}.Match("Gross Pay", table)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = FuzzyMatcher{}.Match("net pay", table)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	// Substring in either direction; first hit wins.
	idx, ok = FuzzyMatcher{}.Match("Gross", table)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = FuzzyMatcher{}.Match("Bonus", table)
	assert.False(t, ok)
}

func TestStrictMatcher_NoSubstrings(t *testing.T) {
	table := Table{Columns: []Column{{Name: "Gross Pay"}}}

	_, ok := StrictMatcher{}.Match("Gross", table)
	assert.False(t, ok)

	idx, ok := StrictMatcher{}.Match("gross pay", table)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}
