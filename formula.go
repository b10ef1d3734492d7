package xlform

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FormulaPrefix marks a source_column as a formula.
const FormulaPrefix = "="

// bannedSubstrings must never appear in a substituted expression. The
// restricted parser cannot execute them anyway; the check keeps the safety
// property independent of the parser.
var bannedSubstrings = []string{"import", "exec", "eval", "__", "open", "file"}

// resolvedToken is a formula token bound to its value source.
type resolvedToken struct {
	token    string
	fromOut  bool           // value comes from an already-computed output column
	colIdx   int            // index into t.Columns or outputSoFar
	wordExpr *regexp.Regexp // whole-word pattern for simple identifiers, nil for spaced/hyphenated tokens
}

// EvaluateFormula evaluates a formula column over every row of the input
// table. formulaText starts with "="; the remainder is an arithmetic
// expression over column-name tokens. Tokens resolve first against input
// columns via the matcher, then against already-computed output columns by
// exact name, which lets a formula reference output columns defined earlier
// in the mapping. Input values coerce to numbers with parse-or-zero
// semantics.
//
// The result always has exactly one value per input row. A row whose
// substituted expression is unresolved, unsafe, or malformed degrades to 0
// with a warning; no single row ever aborts the column.
func EvaluateFormula(formulaText string, t Table, outputSoFar []Column, matcher ColumnMatcher, diag *Diagnostics) []float64 {
	body := strings.TrimSpace(strings.TrimPrefix(formulaText, FormulaPrefix))
	rows := t.RowCount()
	result := make([]float64, rows)

	isKnown := func(name string) bool {
		if _, ok := (StrictMatcher{}).Match(name, t); ok {
			return true
		}
		return findOutputColumn(outputSoFar, name) >= 0
	}
	tokens := extractTokens(body, isKnown)

	var resolved []resolvedToken
	for _, tok := range tokens {
		if idx, ok := matcher.Match(tok, t); ok {
			resolved = append(resolved, newResolvedToken(tok, false, idx))
			continue
		}
		if idx := findOutputColumn(outputSoFar, tok); idx >= 0 {
			resolved = append(resolved, newResolvedToken(tok, true, idx))
			continue
		}
		diag.Warnf("formula", "no value found for %q in formula %q", tok, body)
	}

	// Longest token first so multi-word names are substituted before any
	// single word they contain. Numeric literals are never re-substituted:
	// every token starts with a letter.
	sort.SliceStable(resolved, func(i, j int) bool {
		return len(resolved[i].token) > len(resolved[j].token)
	})

	for i := 0; i < rows; i++ {
		expr := body
		for _, rt := range resolved {
			expr = rt.substitute(expr, formatOperand(rt.valueAt(t, outputSoFar, i)))
		}

		if !isSafeExpression(expr) {
			// One repair attempt: quoted references leave their quotes
			// behind after substitution.
			repaired := strings.ReplaceAll(expr, `"`, "")
			if !isSafeExpression(repaired) {
				diag.Warnf("formula", "unsafe expression for row %d: %q", i, expr)
				continue
			}
			expr = repaired
		}

		v, err := evalArithmetic(expr)
		if err != nil {
			diag.Warnf("formula", "error evaluating formula for row %d: %v", i, err)
			continue
		}
		result[i] = v
	}
	return result
}

// newResolvedToken builds a resolvedToken, precompiling the whole-word
// pattern for simple identifiers. Tokens containing a space or hyphen are
// substituted by exact text replacement instead, since word boundaries do not
// delimit them cleanly.
func newResolvedToken(tok string, fromOut bool, colIdx int) resolvedToken {
	rt := resolvedToken{token: tok, fromOut: fromOut, colIdx: colIdx}
	if !strings.ContainsAny(tok, " \t-") {
		rt.wordExpr = regexp.MustCompile(`\b` + regexp.QuoteMeta(tok) + `\b`)
	}
	return rt
}

// valueAt returns the token's numeric value for a row.
func (rt resolvedToken) valueAt(t Table, outputSoFar []Column, row int) float64 {
	if rt.fromOut {
		cells := outputSoFar[rt.colIdx].Cells
		if row >= len(cells) {
			return 0
		}
		return ToNumber(cells[row])
	}
	return ToNumber(t.Columns[rt.colIdx].Cells[row])
}

// substitute replaces the token in expr with the given numeric text.
func (rt resolvedToken) substitute(expr, numText string) string {
	if rt.wordExpr != nil {
		return rt.wordExpr.ReplaceAllString(expr, numText)
	}
	return strings.ReplaceAll(expr, rt.token, numText)
}

// findOutputColumn returns the index of the output column with the exact
// name, or -1.
func findOutputColumn(cols []Column, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// formatOperand renders a number without exponent notation so the result
// always passes the safety charset.
func formatOperand(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// isSafeExpression reports whether a fully substituted expression contains
// only digits, arithmetic operators, parentheses, decimal points, and
// whitespace, and none of the banned substrings.
func isSafeExpression(expr string) bool {
	for _, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '*' || r == '/':
		case r == '(' || r == ')' || r == '.':
		case r == ' ' || r == '\t':
		default:
			return false
		}
	}
	lower := strings.ToLower(expr)
	for _, banned := range bannedSubstrings {
		if strings.Contains(lower, banned) {
			return false
		}
	}
	return true
}
