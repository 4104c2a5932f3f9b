package usecase

import (
	"fmt"
	"strings"
)

// 価格帯（両端を含む、最小通貨単位）
type PriceRange struct {
	Min int64
	Max int64
}

// ParsePriceRangeは "min-max" を解釈する。空文字ならnil（絞り込みなし）。
func ParsePriceRange(raw string) (*PriceRange, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return nil, NewInvalidRequest("invalid priceRange")
	}

	lo, err := ParsePrice(parts[0])
	if err != nil {
		return nil, NewInvalidRequest("invalid priceRange")
	}
	hi, err := ParsePrice(parts[1])
	if err != nil {
		return nil, NewInvalidRequest("invalid priceRange")
	}
	if lo > hi {
		return nil, NewInvalidRequest("priceRange min must be <= max")
	}

	return &PriceRange{Min: lo, Max: hi}, nil
}

// ParsePriceは "12" / "12.5" / "12.50" をセントにする。
// 負数・指数表記・小数3桁以上は受け付けない。
func ParsePrice(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" || (hasDot && frac == "") {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("price %q has more than 2 decimals", raw)
	}
	// int64のセントに収まる範囲
	if len(whole) > 15 {
		return 0, fmt.Errorf("price %q too large", raw)
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid price %q", raw)
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	for i, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid price %q", raw)
		}
		if i == 0 {
			cents += int64(r-'0') * 10
		} else {
			cents += int64(r - '0')
		}
	}
	return cents, nil
}

// FormatPriceはセントを "40.00" の形にする
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
