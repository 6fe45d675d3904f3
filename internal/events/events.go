package events

import "time"

// Stream name.
const StreamEvents = "BANASUKO_EVENTS"

// Subject constants.
const (
	SubjectDiagnosisScored = "banasuko.events.diagnosis.scored"
	SubjectComparisonDone  = "banasuko.events.diagnosis.compared"
)

// DiagnosisScored is published after every persisted scoring, including ones
// whose model call failed.
type DiagnosisScored struct {
	DiagnosisID string    `json:"diagnosis_id"`
	UID         string    `json:"uid"`
	Pattern     string    `json:"pattern"`
	Status      string    `json:"status"`
	Score       string    `json:"score"`
	Industry    string    `json:"industry"`
	Result      string    `json:"result,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ComparisonDone is published after an A/B comparison completes.
type ComparisonDone struct {
	UID       string    `json:"uid"`
	Timestamp time.Time `json:"timestamp"`
}
