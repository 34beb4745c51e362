package keywords

import (
	"fmt"
	"strings"
	"time"
)

const keywordsSystemPrompt = "You are an expert strategic analyst. " +
	"Generate web search keywords from the provided strategic context and return ONLY valid JSON."

func buildKeywordsPrompt(briefing string, now time.Time) string {
	year := now.Year()

	var b strings.Builder
	fmt.Fprintf(&b, "Generate 5-8 web search keywords from the strategic context below.\n\n")
	fmt.Fprintf(&b, "Today is %s. The current year is %d. ", now.Format("2006-01-02"), year)
	fmt.Fprintf(&b, "Bias keywords toward the last 30 days and use %d when mentioning a year.\n\n", year)
	b.WriteString("STRATEGIC CONTEXT:\n")
	b.WriteString(briefing)
	b.WriteString("\n\nEach keyword should be specific enough to find relevant news, broad\n")
	b.WriteString("enough to catch important developments, and focused on recent events.\n\n")
	b.WriteString(`Return ONLY a JSON object of this shape:

{
  "keywords": ["keyword 1", "keyword 2", "keyword 3"],
  "reasoning": "one line on why these keywords"
}`)
	return b.String()
}
