// Package bytesize parses human readable sizes such as "4MB" or "512K".
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Suffixes are 1024 based. The trailing B is optional except for plain bytes.
var units = []struct {
	suffix string
	mult   int64
}{
	{"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

// Parse returns the number of bytes in s. A bare number is taken as bytes.
func Parse(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	mult := int64(1)
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s, mult = strings.TrimSpace(strings.TrimSuffix(s, u.suffix)), u.mult
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid size %q", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", raw)
	}

	bytes := value * float64(mult)
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", raw)
	}
	return int64(bytes), nil
}

// Format renders n with the largest unit that divides it exactly.
func Format(n int64) string {
	for _, u := range units[:4] {
		if n >= u.mult && n%u.mult == 0 {
			return strconv.FormatInt(n/u.mult, 10) + u.suffix
		}
	}
	return strconv.FormatInt(n, 10) + "B"
}
