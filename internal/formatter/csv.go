package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yildizm/DocSum/internal/common"
)

// csvFormatter formats results and logs as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

// Format writes one row per summary point, score, clause and anomaly
func (f *csvFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	records := [][]string{{"Section", "Value"}}
	if result != nil {
		records = appendSection(records, "summary", result.Summary)
		records = append(records,
			[]string{"risk_score", common.FormatScore(result.Ratings.RiskScore)},
			[]string{"opportunity_score", common.FormatScore(result.Ratings.OpportunityScore)},
		)
		records = appendSection(records, "risk", result.Clauses.Risk)
		records = appendSection(records, "opportunity", result.Clauses.Opportunity)
		records = appendSection(records, "neutral", result.Clauses.Neutral)
		records = appendSection(records, "anomaly", result.Anomalies)
	}
	return writeCSV(records)
}

// FormatLogs writes every entry untruncated, in backend order
func (f *csvFormatter) FormatLogs(entries []common.LogEntry) ([]byte, error) {
	records := make([][]string, 0, len(entries)+1)
	records = append(records, []string{"ID", "Request", "Response", "Timestamp"})
	for _, e := range entries {
		records = append(records, []string{e.ID.String(), e.Request, e.Response, e.Timestamp})
	}
	return writeCSV(records)
}

func appendSection(records [][]string, section string, values []string) [][]string {
	for _, v := range values {
		records = append(records, []string{section, v})
	}
	return records
}

func writeCSV(records [][]string) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV records: %w", err)
	}
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
