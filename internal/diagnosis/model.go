package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

// Pattern identifies one of the two A/B banner slots.
type Pattern string

const (
	PatternA Pattern = "A"
	PatternB Pattern = "B"
)

// ParsePattern accepts only the two literal slot names.
func ParsePattern(s string) (Pattern, bool) {
	switch Pattern(s) {
	case PatternA, PatternB:
		return Pattern(s), true
	default:
		return "", false
	}
}

// Evaluation statuses. A scored evaluation may still carry unparsed fields;
// an error evaluation means the model call itself failed.
type Status string

const (
	StatusScored Status = "scored"
	StatusError  Status = "error"
)

// Display sentinels for fields that could not be produced. Kept in Japanese
// since they surface verbatim in the UI and in stored records.
const (
	UnparsedValue = "取得できず"
	ErrorValue    = "エラー"
)

// Evaluation is the parsed outcome of one scoring call.
type Evaluation struct {
	Status  Status `json:"status"`
	Score   string `json:"score"`
	Comment string `json:"comment"`
	Raw     string `json:"-"`
}

// ScoreContext is the ad metadata the caller supplies with each image. All
// fields feed the prompt; Industry additionally triggers the compliance
// review for regulated categories.
type ScoreContext struct {
	Platform    string `json:"platform"`
	Category    string `json:"category"`
	Industry    string `json:"industry"`
	AgeGroup    string `json:"age_group"`
	Purpose     string `json:"purpose"`
	ScoreFormat string `json:"score_format"`
	Annotations string `json:"annotations"`
}

// Record is one durable diagnosis row. Records are append-only: re-scoring a
// pattern inserts a new row rather than updating an old one.
type Record struct {
	ID           uuid.UUID `json:"id"`
	UID          string    `json:"uid"`
	Pattern      Pattern   `json:"pattern"`
	Platform     string    `json:"platform"`
	Category     string    `json:"category"`
	Industry     string    `json:"industry"`
	AgeGroup     string    `json:"age_group"`
	Purpose      string    `json:"purpose"`
	Score        string    `json:"score"`
	Comment      string    `json:"comment"`
	Result       string    `json:"result"`
	FollowerGain *int      `json:"follower_gain,omitempty"`
	Memo         string    `json:"memo,omitempty"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Compliance review outcomes. ResultCaution is also the fail-closed answer
// when the review itself errors.
const (
	ResultOK      = "ok"
	ResultCaution = "caution"
)
