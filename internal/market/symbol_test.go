package market

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in       string
		want     string
		exchange Exchange
		wantErr  bool
	}{
		{"600519", "600519", ExchangeShanghai, false},
		{"600519.SH", "600519", ExchangeShanghai, false},
		{"sh600519", "600519", ExchangeShanghai, false},
		{"688111", "688111", ExchangeShanghai, false},
		{"510300", "510300", ExchangeShanghai, false},
		{"000001", "000001", ExchangeShenzhen, false},
		{"1", "000001", ExchangeShenzhen, false},
		{"300750", "300750", ExchangeShenzhen, false},
		{"159915", "159915", ExchangeShenzhen, false},
		{"002594.SZ", "002594", ExchangeShenzhen, false},
		{"", "", "", true},
		{"abc123", "", "", true},
		{"1234567", "", "", true},
		{"400001", "", "", true},
	}
	for _, c := range cases {
		got, exch, err := Normalize(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want || exch != c.exchange {
			t.Errorf("Normalize(%q) = %q/%q, want %q/%q", c.in, got, exch, c.want, c.exchange)
		}
	}
}

func TestIsGrowthBoard(t *testing.T) {
	if !IsGrowthBoard("688111") {
		t.Error("688 prefix should be growth board")
	}
	if !IsGrowthBoard("300750") {
		t.Error("300 prefix should be growth board")
	}
	if IsGrowthBoard("600519") {
		t.Error("600 prefix should not be growth board")
	}
}
