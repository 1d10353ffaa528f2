package render

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		cents    int64
		expected string
	}{
		{0, "$0.00"},
		{99, "$0.99"},
		{11200, "$112.00"},
		{123456789, "$1,234,567.89"},
		{100000, "$1,000.00"},
		{-250075, "-$2,500.75"},
	}

	for _, tt := range tests {
		if got := Currency(tt.cents); got != tt.expected {
			t.Errorf("Currency(%d): expected %s, got %s", tt.cents, tt.expected, got)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-01-15", "15/01/2024"},
		{"2024-01-15T10:30:00", "15/01/2024"},
		{"15/01/2024", "15/01/2024"},
		{"", ""},
		{"2024-13-40", "2024-13-40"},
	}

	for _, tt := range tests {
		if got := Date(tt.input); got != tt.expected {
			t.Errorf("Date(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 6, 20, 15, 4, 5, 0, time.UTC)
	if got := Timestamp(ts); got != "20/06/2024 10:04:05" {
		t.Errorf("expected Ecuador local time, got %s", got)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("2024-01", "compras", "csv"); got != "ATS_2024-01_compras.csv" {
		t.Errorf("expected ATS_2024-01_compras.csv, got %s", got)
	}
	if got := Filename("2024-01", "", "xlsx"); got != "ATS_2024-01.xlsx" {
		t.Errorf("expected ATS_2024-01.xlsx, got %s", got)
	}
}
