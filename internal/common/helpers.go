package common

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	AI3Decimals = 18 // 1 AI3 = 10^18 shannons, same scale as wei on Auto-EVM
)

// ShannonsToAI3 converts shannons to an AI3 string without float precision loss
func ShannonsToAI3(shannons *big.Int) string {
	return FormatUnits(shannons, AI3Decimals)
}

// AI3ToShannons converts an AI3 string to shannons without float precision loss
func AI3ToShannons(ai3 string) (*big.Int, error) {
	return ParseUnits(ai3, AI3Decimals)
}

// FormatUnits converts an integer amount to a decimal string by inserting the decimal point.
// Trailing fractional zeros are trimmed.
// Example: FormatUnits(1500000000000000000, 18) = "1.5"
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		value = new(big.Int)
	}
	neg := value.Sign() < 0
	s := new(big.Int).Abs(value).String()

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	whole, frac := s[:pos], strings.TrimRight(s[pos:], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ParseUnits converts a decimal string to an integer amount by removing the decimal point.
// More fractional digits than decimals is an error rather than a silent truncation.
// Example: ParseUnits("0.5", 18) = 500000000000000000
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("amount must be an unsigned decimal: %q", s)
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid decimal format: %q", s)
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid decimal format: %q", s)
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("too many decimal places in %q (max %d)", s, decimals)
	}

	// Pad fractional part to exact decimals
	frac += strings.Repeat("0", decimals-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal format: %q", s)
	}
	return n, nil
}
