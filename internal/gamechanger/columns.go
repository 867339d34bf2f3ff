package gamechanger

// columns.go resolves the positions of stat columns in a GameChanger header.
//
// GameChanger does not prefix its labels by section, so the same label (H,
// SO, BB, R, GP) shows up in batting and again in pitching. Section
// boundaries are taken from the labels themselves: pitching starts at the
// first IP and fielding starts at the last TC. Anything before pitching is
// batting.

// MaxHeaderSearchRows is how many leading non-empty rows are checked for the
// Number,Last,First header.
const MaxHeaderSearchRows = 5

// absent marks a column that is not present in the header.
const absent = -1

// battingLabels are the batting columns read from an export, spelled the way
// GameChanger writes them.
var battingLabels = []string{
	"GP", "PA", "AB", "AVG", "OBP", "SLG", "OPS",
	"H", "1B", "2B", "3B", "HR", "RBI", "R", "BB", "SO", "HBP", "SB", "CS",
}

// FieldingColumns holds header positions of the fielding section.
type FieldingColumns struct {
	TC, A, PO, FPCT, E, DP int
}

// PitchingColumns holds header positions of the pitching section.
type PitchingColumns struct {
	IP, ERA, WHIP, SO, BB, H, R, ER int
}

// ColumnIndex is the resolved layout of one export header.
type ColumnIndex struct {
	Batting  map[string]int
	Pitching PitchingColumns
	Fielding FieldingColumns
}

// isHeaderRow reports whether row starts with the literal Number,Last,First.
func isHeaderRow(row []string) bool {
	return len(row) >= 3 && row[0] == "Number" && row[1] == "Last" && row[2] == "First"
}

// findHeaderRow returns the index of the header within records. Only the
// first MaxHeaderSearchRows records are considered.
func findHeaderRow(records [][]string) (int, error) {
	limit := MaxHeaderSearchRows
	if len(records) < limit {
		limit = len(records)
	}
	for i := 0; i < limit; i++ {
		if isHeaderRow(records[i]) {
			return i, nil
		}
	}
	return absent, &HeaderNotFoundError{RowsScanned: limit}
}

// indexFrom returns the first position of label in header[from:to], or absent.
func indexFrom(header []string, label string, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(header) {
		to = len(header)
	}
	for i := from; i < to; i++ {
		if header[i] == label {
			return i
		}
	}
	return absent
}

// lastIndex returns the last position of label in header, or absent.
func lastIndex(header []string, label string) int {
	for i := len(header) - 1; i >= 0; i-- {
		if header[i] == label {
			return i
		}
	}
	return absent
}

// locateFieldingColumns finds the fielding sextet. TC is taken from the end of
// the row; each following label must appear after the previous one that was
// found, so stray A or E labels elsewhere in the header are not picked up.
func locateFieldingColumns(header []string) FieldingColumns {
	cols := FieldingColumns{TC: absent, A: absent, PO: absent, FPCT: absent, E: absent, DP: absent}

	cols.TC = lastIndex(header, "TC")
	if cols.TC == absent {
		return cols
	}

	anchor := cols.TC
	next := func(label string) int {
		pos := indexFrom(header, label, anchor+1, len(header))
		if pos != absent {
			anchor = pos
		}
		return pos
	}

	cols.A = next("A")
	cols.PO = next("PO")
	cols.FPCT = next("FPCT")
	cols.E = next("E")
	cols.DP = next("DP")
	return cols
}

// locatePitchingColumns finds the pitching columns inside header[start:end].
// IP opens the section; every other label is searched after IP.
func locatePitchingColumns(header []string, start, end int) PitchingColumns {
	cols := PitchingColumns{IP: absent, ERA: absent, WHIP: absent, SO: absent, BB: absent, H: absent, R: absent, ER: absent}

	cols.IP = indexFrom(header, "IP", start, end)
	if cols.IP == absent {
		return cols
	}

	after := func(label string) int {
		return indexFrom(header, label, cols.IP+1, end)
	}

	cols.ERA = after("ERA")
	cols.WHIP = after("WHIP")
	cols.SO = after("SO")
	cols.BB = after("BB")
	cols.H = after("H")
	cols.R = after("R")
	cols.ER = after("ER")
	return cols
}

// buildColumnIndex resolves every stat column of a header row.
func buildColumnIndex(header []string) ColumnIndex {
	fielding := locateFieldingColumns(header)

	fieldingStart := len(header)
	if fielding.TC != absent {
		fieldingStart = fielding.TC
	}

	// Identity columns occupy 0..2.
	pitching := locatePitchingColumns(header, 3, fieldingStart)

	battingEnd := fieldingStart
	if pitching.IP != absent {
		battingEnd = pitching.IP
	}

	batting := make(map[string]int, len(battingLabels))
	for _, label := range battingLabels {
		batting[label] = indexFrom(header, label, 3, battingEnd)
	}

	return ColumnIndex{
		Batting:  batting,
		Pitching: pitching,
		Fielding: fielding,
	}
}
