// Package format turns raw job fields into display strings.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

const week = 7 * 24 * time.Hour

var relativeMarkers = []string{"ago", "just now", "minute", "hour", "day"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Posted normalises the posted field for display. Relative phrases pass
// through, timestamps become relative up to a week old and a date after
// that; anything unparseable is returned untouched.
func Posted(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	lower := strings.ToLower(s)
	for _, m := range relativeMarkers {
		if strings.Contains(lower, m) {
			return s
		}
	}

	t, ok := parseTimestamp(s)
	if !ok {
		return raw
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < week:
		return humanize.RelTime(t, now, "ago", "from now")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Description strips markup from a job description and collapses whitespace.
func Description(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Percent renders a score as a whole percentage clamped to 0..100.
func Percent(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	p := int(math.Round(score * 100))
	return max(0, min(100, p))
}

// Truncate shortens s to n runes, ending with "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
