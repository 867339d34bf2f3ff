package gamechanger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatStat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{".295", 0.295},
		{"0.295", 0.295},
		{"1.068", 1.068},
		{"24%", 24},
		{" 94.4 % ", 94.4},
		{"12", 12},
		{"", 0},
		{"   ", 0},
		{"-", 0},
		{"N/A", 0},
		{"n/a", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-0.5", 0},
		{"1e30", 0},
		{"9999999999999999999999", 0},
		{"2147483647", 2147483647},
		{"2147483648", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseFloatStat(tt.in), 1e-9)
		})
	}
}

func TestParseIntStat(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"11", 11},
		{" 7 ", 7},
		{"2.4", 2},
		{"2.5", 3},
		{"-", 0},
		{"", 0},
		{"x", 0},
		{"-3", 0},
		{"1e30", 0},
		{"9999999999999999999999", 0},
		{"-Inf", 0},
		{"2147483647", 2147483647},
		{"2147483647.4", 2147483647},
		{"2147483648", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIntStat(tt.in))
		})
	}
}

func TestParseInnings(t *testing.T) {
	assert.Equal(t, 6.2, parseInnings("6.2"))
	assert.Equal(t, 0.1, parseInnings("0.1"))
	assert.Equal(t, 0.0, parseInnings("-1"))
	assert.Equal(t, 0.0, parseInnings("-"))
}

func TestParseJersey(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"4", 4, true},
		{" 99 ", 99, true},
		{"0", 0, true},
		{"00", 0, true},
		{"-3", 0, false},
		{"", 0, false},
		{"#", 0, false},
		{"4.0", 0, false},
		{"Totals", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseJersey(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "a", cell(row, 0))
	assert.Equal(t, "b", cell(row, 1))
	assert.Equal(t, "", cell(row, 2))
	assert.Equal(t, "", cell(row, absent))
}
