package analysis

import (
	"NewsScanner/internal/aireply"
	"NewsScanner/internal/domain"
)

// parseErrorCategory flags verdicts built from replies no parsing layer
// could structure.
const parseErrorCategory = "parse-error"

// degradedConfidence is the confidence floor assigned to such verdicts.
const degradedConfidence = 0.1

// verdictPayload mirrors the JSON shape the analysis prompt requests.
// Confidence is a pointer so a missing field can be defaulted rather than
// read as zero.
type verdictPayload struct {
	Importance         string   `json:"importance"`
	Confidence         *float64 `json:"confidence"`
	WhyItMatters       []string `json:"why_it_matters"`
	Evidence           string   `json:"evidence"`
	SecondOrderImpacts string   `json:"second_order_impacts"`
	RecommendedActions []string `json:"recommended_actions"`
	DedupeNote         string   `json:"dedupe_note"`
	Category           string   `json:"category"`
}

// parseVerdict builds a verdict from a collaborator reply. The second
// return value reports the degraded fallback path: reply unusable, item
// kept with a flagged low-confidence verdict instead of being dropped.
func parseVerdict(reply string, item domain.RawItem) (domain.Verdict, bool) {
	var payload verdictPayload
	if err := aireply.DecodeObject(reply, &payload); err != nil {
		return degradedVerdict(reply, item), true
	}

	confidence := 0.5
	if payload.Confidence != nil {
		confidence = domain.ClampConfidence(*payload.Confidence)
	}

	// Absent list fields serialize as [] in the report, not null.
	if payload.WhyItMatters == nil {
		payload.WhyItMatters = []string{}
	}
	if payload.RecommendedActions == nil {
		payload.RecommendedActions = []string{}
	}

	return domain.Verdict{
		Title:              item.Title,
		Source:             item.Source,
		URL:                item.URL,
		Importance:         domain.NormalizeImportance(payload.Importance),
		Confidence:         confidence,
		Rationale:          payload.WhyItMatters,
		Evidence:           payload.Evidence,
		SecondOrderImpacts: payload.SecondOrderImpacts,
		RecommendedActions: payload.RecommendedActions,
		DedupeNote:         payload.DedupeNote,
		Category:           payload.Category,
		SearchKeyword:      item.SearchKeyword,
	}, false
}

func degradedVerdict(reply string, item domain.RawItem) domain.Verdict {
	return domain.Verdict{
		Title:              item.Title,
		Source:             item.Source,
		URL:                item.URL,
		Importance:         domain.ImportanceLow,
		Confidence:         degradedConfidence,
		Rationale:          []string{"analysis reply could not be parsed"},
		RecommendedActions: []string{},
		Evidence:           "unparseable reply: " + prefix(reply, 200),
		Category:           parseErrorCategory,
		SearchKeyword:      item.SearchKeyword,
	}
}
