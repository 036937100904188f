package formatter

import (
	"encoding/json"

	"github.com/yildizm/DocSum/internal/common"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// AnalysisOutput is the JSON shape of an analysis, with the rating scale
// and empty lists instead of nulls
type AnalysisOutput struct {
	Summary   []string       `json:"summary"`
	Ratings   RatingsOutput  `json:"ratings"`
	Clauses   common.Clauses `json:"clauses"`
	Anomalies []string       `json:"anomalies"`
}

// RatingsOutput carries both scores and the scale they are measured against
type RatingsOutput struct {
	RiskScore        float64 `json:"risk_score"`
	OpportunityScore float64 `json:"opportunity_score"`
	Scale            int     `json:"scale"`
}

func (f *jsonFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	if result == nil {
		result = &common.AnalysisResult{}
	}
	output := &AnalysisOutput{
		Summary: nonNil(result.Summary),
		Ratings: RatingsOutput{
			RiskScore:        result.Ratings.RiskScore,
			OpportunityScore: result.Ratings.OpportunityScore,
			Scale:            common.RatingScale,
		},
		Clauses: common.Clauses{
			Risk:        nonNil(result.Clauses.Risk),
			Opportunity: nonNil(result.Clauses.Opportunity),
			Neutral:     nonNil(result.Clauses.Neutral),
		},
		Anomalies: nonNil(result.Anomalies),
	}

	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatLogs(entries []common.LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []common.LogEntry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
