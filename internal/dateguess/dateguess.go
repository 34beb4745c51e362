// Package dateguess extracts publish dates from free text on a best-effort
// basis. Search snippets rarely carry machine-readable dates, so the
// extraction walks a list of textual patterns and, failing that, applies a
// bare-year staleness heuristic. The heuristic is a precision/recall knob,
// not a reliable parse, and is tuned for English-language content.
package dateguess

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Guess is the outcome of one extraction attempt.
type Guess struct {
	Date time.Time
	// Found reports whether a full date was extracted. When false, Date
	// is the zero value.
	Found bool
	// Stale reports a strong staleness signal without a full date: every
	// year token in the text is at least two calendar years old.
	Stale bool
}

type pattern struct {
	expr    *regexp.Regexp
	layouts []string
}

var patterns = []pattern{
	// ISO-ish: 2025-01-15, 2025/1/15
	{regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`), []string{"2006-1-2", "2006/1/2"}},
	// US: 01-15-2025, 1/15/2025
	{regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{4}`), []string{"1-2-2006", "1/2/2006"}},
	// January 15, 2025
	{regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`), []string{"January 2, 2006", "January 2 2006"}},
	// 15 January 2025
	{regexp.MustCompile(`(?i)\d{1,2}\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}`), []string{"2 January 2006"}},
	// Jan 15, 2025
	{regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+\d{1,2},?\s+\d{4}`), []string{"Jan 2, 2006", "Jan 2 2006"}},
}

var (
	urlDateExpr = regexp.MustCompile(`/(\d{4})/(\d{1,2})/(\d{1,2})/`)
	yearExpr    = regexp.MustCompile(`\b(20\d{2})\b`)
)

// Extract inspects description text, then the URL path, then bare year
// tokens in title+description, and returns the best guess relative to now.
func Extract(title, url, description string, now time.Time) Guess {
	for _, p := range patterns {
		match := p.expr.FindString(description)
		if match == "" {
			continue
		}
		text := normalizeMatch(match)
		for _, layout := range p.layouts {
			if d, err := time.Parse(layout, text); err == nil {
				return Guess{Date: d, Found: true}
			}
		}
	}

	if m := urlDateExpr.FindStringSubmatch(url); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return Guess{Date: d, Found: true}
		}
	}

	years := yearExpr.FindAllString(title+" "+description, -1)
	if len(years) > 0 {
		newest := 0
		for _, y := range years {
			if n, err := strconv.Atoi(y); err == nil && n > newest {
				newest = n
			}
		}
		if newest > 0 && newest < now.Year()-1 {
			return Guess{Stale: true}
		}
	}

	return Guess{}
}

// normalizeMatch drops the trailing dot of abbreviated months ("Jan. 15")
// so the fixed layouts can parse them.
func normalizeMatch(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
