package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
)

// RatingScale is the fixed scale ratings are displayed against
const RatingScale = 10

// PendingFile is a document staged for upload
type PendingFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NewPendingFile creates a pending file named after the base of path
func NewPendingFile(path string) PendingFile {
	return PendingFile{
		Name: filepath.Base(path),
		Path: path,
	}
}

// AnalysisResult is the decoded response of the upload endpoint
type AnalysisResult struct {
	Summary   []string `json:"summary"`
	Ratings   Ratings  `json:"ratings"`
	Clauses   Clauses  `json:"clauses"`
	Anomalies []string `json:"anomalies"`
}

// Ratings holds the backend scores, both out of RatingScale
type Ratings struct {
	RiskScore        float64 `json:"risk_score"`
	OpportunityScore float64 `json:"opportunity_score"`
}

// Clauses groups classified clauses
type Clauses struct {
	Risk        []string `json:"risk"`
	Opportunity []string `json:"opportunity"`
	Neutral     []string `json:"neutral"`
}

// LogEntry is one request/response record kept by the backend
type LogEntry struct {
	ID        LogID  `json:"id"`
	Request   string `json:"request"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// LogID keeps a log identifier exactly as the backend sent it.
// The backend may use numbers or strings; the zero value is an absent id.
type LogID struct {
	text    string
	numeric bool
}

// StringID returns an id that encodes as a JSON string
func StringID(s string) LogID {
	return LogID{text: s}
}

// NumberID returns an id that encodes as the JSON number literal s
func NumberID(s string) LogID {
	return LogID{text: s, numeric: true}
}

// UnmarshalJSON accepts a JSON number or string
func (id *LogID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = LogID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("log id must be a number or string: %w", err)
	}
	*id = NumberID(n.String())
	return nil
}

// MarshalJSON writes the id back in the form it arrived in. Numeric text
// that is not a valid JSON number literal is written as a string.
func (id LogID) MarshalJSON() ([]byte, error) {
	if id == (LogID{}) {
		return []byte("null"), nil
	}
	if id.numeric && isNumberLiteral(id.text) {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

// String returns the id as displayed
func (id LogID) String() string {
	return id.text
}

func isNumberLiteral(s string) bool {
	var n json.Number
	return json.Valid([]byte(s)) && json.Unmarshal([]byte(s), &n) == nil
}

// FormatScore renders a score without trailing zeros, e.g. "7" or "6.5"
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
