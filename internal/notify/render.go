package notify

import (
	"fmt"
	"strconv"
	"time"
)

// Formatting happens at render time only; stored payloads never carry
// pre-formatted money or dates, so locale changes need no data migration.

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 at 15:04 MST")
}

func formatTimeRange(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return fmt.Sprintf("%s – %s", formatDateTime(start), end.Format("15:04 MST"))
	}
	return fmt.Sprintf("%s – %s", formatDateTime(start), formatDateTime(end))
}

func formatMoney(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	negative := false
	if len(s) > 0 && s[0] == '-' {
		negative = true
		s = s[1:]
	}

	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}

	if negative {
		return "-$" + string(out)
	}
	return "$" + string(out)
}

func formatSalaryRange(min, max int64) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%s – %s", formatMoney(min), formatMoney(max))
	case min > 0:
		return "from " + formatMoney(min)
	case max > 0:
		return "up to " + formatMoney(max)
	default:
		return "not disclosed"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
