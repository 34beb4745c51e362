package analysis

import (
	"fmt"
	"strings"

	"NewsScanner/internal/domain"
)

const analysisSystemPrompt = "You are an expert strategic analyst. " +
	"Analyze news items against the provided strategic context and return ONLY valid JSON."

// maxDescriptionLen caps how much item text is embedded per prompt.
const maxDescriptionLen = 1000

func buildAnalysisPrompt(item domain.RawItem, briefing string) string {
	description := item.Body
	if description == "" {
		description = item.Description
	}
	if description == "" {
		description = "No description available"
	} else if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	var b strings.Builder
	b.WriteString("Analyze this news item against the strategic context below.\n\n")
	b.WriteString("STRATEGIC CONTEXT:\n")
	b.WriteString(briefing)
	b.WriteString("\n\nNEWS ITEM TO ANALYZE:\n")
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	fmt.Fprintf(&b, "Source: %s\n", item.Source)
	fmt.Fprintf(&b, "URL: %s\n", item.URL)
	fmt.Fprintf(&b, "Description: %s\n\n", description)
	b.WriteString(`Respond with a single JSON object with these fields:

{
  "importance": "high" | "medium" | "low",
  "confidence": 0.0-1.0,
  "why_it_matters": ["reason 1", "reason 2"],
  "evidence": "key facts and sourcing",
  "second_order_impacts": "possible knock-on effects, if any",
  "recommended_actions": ["action 1"],
  "dedupe_note": "whether this duplicates a recent event, or what it adds",
  "category": "short category label or null"
}

Importance criteria:
- HIGH: strategy impact within 7-30 days, platform or policy rule changes,
  major competitor or key-tool moves, significant legal/compliance shifts,
  or a new model/channel being adopted quickly.
- MEDIUM: relevant but uncertain or not urgent.
- LOW: generic industry content with no clear impact path.

Return ONLY the JSON object, no extra text or explanation.`)
	return b.String()
}
