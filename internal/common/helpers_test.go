package common

import (
	"math/big"
	"testing"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"0", "0"},
		{"1", "0.000000000000000001"},
		{"1500000000000000000", "1.5"},
		{"1000000000000000000", "1"},
		{"123456789000000000000", "123.456789"},
		{"-2500000000000000000", "-2.5"},
	}
	for _, tt := range tests {
		v, _ := new(big.Int).SetString(tt.value, 10)
		if got := ShannonsToAI3(v); got != tt.want {
			t.Errorf("ShannonsToAI3(%s) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.5", "500000000000000000"},
		{".25", "250000000000000000"},
		{"10.", "10000000000000000000"},
		{" 2.000000000000000001 ", "2000000000000000001"},
	}
	for _, tt := range tests {
		got, err := AI3ToShannons(tt.in)
		if err != nil {
			t.Fatalf("AI3ToShannons(%q): %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("AI3ToShannons(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseUnitsRejects(t *testing.T) {
	for _, in := range []string{"", ".", "-1", "1.2.3", "abc", "0.0000000000000000001"} {
		if _, err := AI3ToShannons(in); err == nil {
			t.Errorf("AI3ToShannons(%q): expected error", in)
		}
	}
}
