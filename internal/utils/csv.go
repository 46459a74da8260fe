package utils

import (
	"strings"
	"time"
)

// QuoteCSV wraps a value in double quotes, doubling any embedded quotes.
func QuoteCSV(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// FormatTimestamp renders a timestamp the way export consumers expect.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
