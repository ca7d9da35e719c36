package market

import (
	"fmt"
	"strings"
)

// Exchange identifies the listing venue of an A-share symbol.
type Exchange string

const (
	ExchangeShanghai Exchange = "SH"
	ExchangeShenzhen Exchange = "SZ"
)

// Normalize canonicalizes a raw symbol to six digits and resolves its
// exchange from the code prefix. Inputs like "600519.SH" or "sh600519"
// are accepted; the suffix or prefix is dropped and re-derived.
func Normalize(raw string) (string, Exchange, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".SH")
	s = strings.TrimSuffix(s, ".SZ")
	s = strings.TrimPrefix(s, "SH")
	s = strings.TrimPrefix(s, "SZ")
	if s == "" {
		return "", "", fmt.Errorf("empty symbol %q", raw)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("symbol %q is not numeric", raw)
		}
	}
	if len(s) > 6 {
		return "", "", fmt.Errorf("symbol %q exceeds six digits", raw)
	}
	s = strings.Repeat("0", 6-len(s)) + s

	switch {
	case strings.HasPrefix(s, "600"), strings.HasPrefix(s, "601"),
		strings.HasPrefix(s, "603"), strings.HasPrefix(s, "605"),
		strings.HasPrefix(s, "688"), strings.HasPrefix(s, "5"):
		return s, ExchangeShanghai, nil
	case strings.HasPrefix(s, "000"), strings.HasPrefix(s, "001"),
		strings.HasPrefix(s, "002"), strings.HasPrefix(s, "003"),
		strings.HasPrefix(s, "300"), strings.HasPrefix(s, "159"):
		return s, ExchangeShenzhen, nil
	}
	return "", "", fmt.Errorf("symbol %q has an unrecognized code prefix", raw)
}

// IsGrowthBoard reports whether a normalized symbol trades on the STAR
// Market or ChiNext, which carry the wider daily limit band.
func IsGrowthBoard(symbol string) bool {
	return strings.HasPrefix(symbol, "688") || strings.HasPrefix(symbol, "300")
}
