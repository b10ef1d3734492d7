package xlform

import "strings"

// DefaultHeaderScanRows is how many leading rows LocateHeader inspects before
// giving up.
const DefaultHeaderScanRows = 20

// headerKeywords are domain terms whose presence marks a likely header row.
var headerKeywords = []string{
	"name", "employee", "pay", "gross", "net", "date", "period",
	"amount", "salary", "wage", "hours", "rate", "deduction",
	"tax", "social", "security", "medicare", "federal", "state",
}

// headerKeywordThreshold is the minimum number of keyword hits for a row to
// qualify as a header.
const headerKeywordThreshold = 3

// LocateHeader finds the most likely header row in a raw, header-less grid by
// keyword scoring. It scans at most maxScanRows leading rows (pass 0 for the
// default window) and returns the index of the first row whose lowercased cell
// text contains at least three of the domain keywords as substrings. The
// second return is false if no row qualifies; callers are expected to fall
// back to treating row 0 as the header.
func LocateHeader(grid [][]Value, maxScanRows int) (int, bool) {
	if maxScanRows <= 0 {
		maxScanRows = DefaultHeaderScanRows
	}
	for idx, row := range grid {
		if idx >= maxScanRows {
			break
		}
		var sb strings.Builder
		for _, cell := range row {
			if cell == nil {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.ToLower(ValueText(cell)))
		}
		rowText := sb.String()

		matches := 0
		for _, kw := range headerKeywords {
			if strings.Contains(rowText, kw) {
				matches++
			}
		}
		if matches >= headerKeywordThreshold {
			return idx, true
		}
	}
	return 0, false
}
