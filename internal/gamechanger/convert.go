package gamechanger

// convert.go turns raw export cells into numbers.
//
// Exports are edited by hand often enough that a single bad cell must not
// sink a row, so every conversion here degrades to 0 instead of failing.

import (
	"math"
	"strconv"
	"strings"
)

// blankStatValues are placeholders GameChanger (and spreadsheet edits) use
// for "no value".
var blankStatValues = map[string]bool{
	"":    true,
	"-":   true,
	"N/A": true,
}

// cleanStat trims a cell and removes percent signs.
func cleanStat(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "")
	return strings.TrimSpace(s)
}

// maxStat is the largest value a stat column can hold; the stat tables use
// INTEGER columns.
const maxStat = math.MaxInt32

// parseFloatStat parses a stat cell. "24%" yields 24, ".295" yields 0.295,
// and blanks, garbage, negatives and values above maxStat yield 0.
func parseFloatStat(s string) float64 {
	s = cleanStat(s)
	if blankStatValues[strings.ToUpper(s)] {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxStat {
		return 0
	}
	return f
}

// parseIntStat parses a counting stat cell, rounding any decimal.
func parseIntStat(s string) int {
	n := math.Round(parseFloatStat(s))
	if n > maxStat {
		return 0
	}
	return int(n)
}

// parseInnings parses innings pitched. The literal decimal is preserved:
// "6.2" is 6.2, not 6.667.
func parseInnings(s string) float64 {
	return parseFloatStat(s)
}

// parseJersey parses the Number column. ok is false for blank, non-integer,
// or negative values.
func parseJersey(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// cell returns row[pos], or "" when the column is absent or the row is short.
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}
