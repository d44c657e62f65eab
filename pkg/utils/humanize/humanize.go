package humanize

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with a 1024 base, e.g. "1.5 KB".
// The value is rounded to two decimals and trailing zeros are dropped.
func FormatBytes(size uint64) string {
	if size == 0 {
		return "0 B"
	}

	converted := float64(size)
	unit := 0
	for converted >= 1024 && unit < len(byteUnits)-1 {
		converted /= 1024
		unit++
	}

	rounded := math.Round(converted*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[unit]
}

// TimeAgo returns a coarse relative duration such as "3 minutes ago".
func TimeAgo(t time.Time) string {
	duration := time.Since(t)
	if duration < 0 {
		duration = -duration
	}

	switch {
	case duration < time.Minute:
		return plural(int(duration.Seconds()), "second")
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute")
	case duration < 24*time.Hour:
		return plural(int(duration.Hours()), "hour")
	case duration < 7*24*time.Hour:
		return plural(int(duration.Hours()/24), "day")
	case duration < 30*24*time.Hour:
		return plural(int(duration.Hours()/(24*7)), "week")
	case duration < 365*24*time.Hour:
		return plural(int(duration.Hours()/(24*30)), "month")
	default:
		return plural(int(duration.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
