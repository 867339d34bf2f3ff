package gamechanger

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Row markers that end or interrupt the player rows.
const (
	glossaryMarker = "Glossary"
	totalsMarker   = "Totals"
)

// Parse reads a GameChanger season export and returns one record per player
// row, in file order.
//
// It fails only when the header row cannot be found (a *HeaderNotFoundError)
// or the text is not tokenizable as CSV. Malformed stat cells read as 0.
func Parse(csvText string) ([]ParsedPlayerStats, error) {
	records, err := readRecords(csvText)
	if err != nil {
		return nil, err
	}

	headerRow, err := findHeaderRow(records)
	if err != nil {
		return nil, err
	}

	idx := buildColumnIndex(records[headerRow])

	var players []ParsedPlayerStats
	for _, row := range records[headerRow+1:] {
		first := strings.TrimSpace(cell(row, 0))

		if first == "" || first == glossaryMarker {
			break
		}
		if first == totalsMarker {
			continue
		}

		number, ok := parseJersey(first)
		if !ok {
			continue
		}

		players = append(players, parseRow(row, number, idx))
	}

	return players, nil
}

// readRecords tokenizes csvText and drops rows with no content.
func readRecords(csvText string) ([][]string, error) {
	csvText = strings.TrimPrefix(csvText, "\ufeff")

	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	records := all[:0]
	for _, row := range all {
		if !isEmptyRow(row) {
			records = append(records, row)
		}
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseRow converts one player row using the resolved column index.
func parseRow(row []string, number int, idx ColumnIndex) ParsedPlayerStats {
	bat := func(label string) string {
		return cell(row, idx.Batting[label])
	}

	p := ParsedPlayerStats{
		JerseyNumber: number,
		LastName:     strings.TrimSpace(cell(row, 1)),
		FirstName:    strings.TrimSpace(cell(row, 2)),
		Batting: ParsedBattingStats{
			GP:      parseIntStat(bat("GP")),
			PA:      parseIntStat(bat("PA")),
			AB:      parseIntStat(bat("AB")),
			AVG:     parseFloatStat(bat("AVG")),
			OBP:     parseFloatStat(bat("OBP")),
			SLG:     parseFloatStat(bat("SLG")),
			OPS:     parseFloatStat(bat("OPS")),
			H:       parseIntStat(bat("H")),
			Singles: parseIntStat(bat("1B")),
			Doubles: parseIntStat(bat("2B")),
			Triples: parseIntStat(bat("3B")),
			HR:      parseIntStat(bat("HR")),
			RBI:     parseIntStat(bat("RBI")),
			R:       parseIntStat(bat("R")),
			BB:      parseIntStat(bat("BB")),
			SO:      parseIntStat(bat("SO")),
			HBP:     parseIntStat(bat("HBP")),
			SB:      parseIntStat(bat("SB")),
			CS:      parseIntStat(bat("CS")),
		},
		Fielding: ParsedFieldingStats{
			TC:   parseIntStat(cell(row, idx.Fielding.TC)),
			A:    parseIntStat(cell(row, idx.Fielding.A)),
			PO:   parseIntStat(cell(row, idx.Fielding.PO)),
			FPCT: parseFloatStat(cell(row, idx.Fielding.FPCT)),
			E:    parseIntStat(cell(row, idx.Fielding.E)),
			DP:   parseIntStat(cell(row, idx.Fielding.DP)),
		},
	}

	if ip := parseInnings(cell(row, idx.Pitching.IP)); ip > 0 {
		p.Pitching = &ParsedPitchingStats{
			IP:   ip,
			ERA:  parseFloatStat(cell(row, idx.Pitching.ERA)),
			WHIP: parseFloatStat(cell(row, idx.Pitching.WHIP)),
			SO:   parseIntStat(cell(row, idx.Pitching.SO)),
			BB:   parseIntStat(cell(row, idx.Pitching.BB)),
			H:    parseIntStat(cell(row, idx.Pitching.H)),
			R:    parseIntStat(cell(row, idx.Pitching.R)),
			ER:   parseIntStat(cell(row, idx.Pitching.ER)),
		}
	}

	return p
}
