package gamechanger

import (
	"bytes"
	"encoding/csv"
	"testing"
)

// Section labels in the order GameChanger writes them. Several labels repeat
// across sections on purpose.
var (
	testBattingLabels = []string{
		"GP", "PA", "AB", "AVG", "OBP", "OPS", "SLG", "H", "1B", "2B", "3B", "HR",
		"RBI", "R", "BB", "SO", "K-L", "HBP", "SAC", "SF", "ROE", "FC", "SB", "SB%", "CS", "PIK",
	}
	testPitchingLabels = []string{
		"IP", "GP", "GS", "BF", "#P", "W", "L", "SV", "H", "R", "ER", "BB", "SO",
		"K-L", "HBP", "ERA", "WHIP", "BAA",
	}
	testFieldingLabels = []string{"TC", "A", "PO", "FPCT", "E", "DP", "TP"}
)

// exportRow describes one data row. Missing labels are written as blank.
type exportRow struct {
	number, last, first string
	batting             map[string]string
	pitching            map[string]string
	fielding            map[string]string
}

func testHeader() []string {
	header := []string{"Number", "Last", "First"}
	header = append(header, testBattingLabels...)
	header = append(header, testPitchingLabels...)
	header = append(header, testFieldingLabels...)
	return header
}

func (r exportRow) cells() []string {
	out := []string{r.number, r.last, r.first}
	for _, l := range testBattingLabels {
		out = append(out, r.batting[l])
	}
	for _, l := range testPitchingLabels {
		out = append(out, r.pitching[l])
	}
	for _, l := range testFieldingLabels {
		out = append(out, r.fielding[l])
	}
	return out
}

// buildExport renders preamble rows, the header, the player rows and any
// trailing rows as CSV text.
func buildExport(t *testing.T, preamble [][]string, rows []exportRow, trailer [][]string) string {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, p := range preamble {
		if err := w.Write(p); err != nil {
			t.Fatalf("write preamble: %v", err)
		}
	}
	if err := w.Write(testHeader()); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r.cells()); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	for _, tr := range trailer {
		if err := w.Write(tr); err != nil {
			t.Fatalf("write trailer: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return buf.String()
}

// seasonExport is the three-player export used across tests: a title row,
// the header, Chen/Anderson/Doe, a Totals row and a Glossary section.
func seasonExport(t *testing.T) string {
	t.Helper()

	rows := []exportRow{
		{
			number: "4", last: "Chen", first: "Ryan",
			batting: map[string]string{
				"GP": "12", "PA": "44", "AB": "37", "AVG": ".295", "OBP": ".409", "SLG": ".432", "OPS": ".841",
				"H": "11", "1B": "8", "2B": "2", "3B": "0", "HR": "1", "RBI": "9", "R": "10",
				"BB": "6", "SO": "7", "HBP": "1", "SB": "5", "CS": "1",
			},
			pitching: map[string]string{
				"IP": "6.2", "GP": "3", "H": "5", "R": "4", "ER": "3", "BB": "4", "SO": "9",
				"ERA": "3.15", "WHIP": "1.35",
			},
			fielding: map[string]string{"TC": "30", "A": "12", "PO": "15", "FPCT": ".900", "E": "3", "DP": "1"},
		},
		{
			number: "7", last: "Anderson", first: "Cole",
			batting: map[string]string{
				"GP": "12", "PA": "46", "AB": "39", "AVG": ".385", "OBP": ".478", "SLG": ".590", "OPS": "1.068",
				"H": "15", "1B": "10", "2B": "4", "3B": "1", "HR": "0", "RBI": "12", "R": "14",
				"BB": "7", "SO": "3", "HBP": "0", "SB": "9", "CS": "0",
			},
			pitching: map[string]string{"IP": "0.0", "H": "-", "ERA": "-"},
			fielding: map[string]string{"TC": "18", "A": "2", "PO": "15", "FPCT": "94.4%", "E": "1", "DP": "0"},
		},
		{
			number: "99", last: "Doe", first: "Jane",
			batting: map[string]string{
				"GP": "2", "PA": "3", "AB": "0", "AVG": "-", "OBP": "N/A", "SLG": "", "OPS": "-",
			},
			fielding: map[string]string{"TC": "0", "FPCT": "-"},
		},
	}

	trailer := [][]string{
		append([]string{"Totals", "", ""}, make([]string, len(testHeader())-3)...),
		{"Glossary"},
		{"12", "GP", "Games played"},
		{"AVG", "Batting average"},
	}

	return buildExport(t, [][]string{{"2026 Spring Season Stats"}}, rows, trailer)
}
