package diagnosis

import (
	"regexp"
	"strings"
)

// The model is instructed to answer with labeled lines; both full-width and
// half-width colons appear in practice.
var (
	scoreRe   = regexp.MustCompile(`スコア[:：]\s*(.+)`)
	commentRe = regexp.MustCompile(`改善コメント[:：]\s*(.+)`)
)

// ParseEvaluation extracts the score and improvement comment from raw model
// output. Fields that cannot be found fall back to the unparsed sentinel;
// the evaluation itself still counts as scored. Parsing is pure and
// idempotent over the raw text.
func ParseEvaluation(raw string) Evaluation {
	ev := Evaluation{
		Status:  StatusScored,
		Score:   UnparsedValue,
		Comment: UnparsedValue,
		Raw:     raw,
	}

	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		ev.Score = strings.TrimSpace(m[1])
	}
	if m := commentRe.FindStringSubmatch(raw); m != nil {
		ev.Comment = strings.TrimSpace(m[1])
	}
	return ev
}

// ErrorEvaluation is the stored shape of a failed model call.
func ErrorEvaluation() Evaluation {
	return Evaluation{
		Status:  StatusError,
		Score:   ErrorValue,
		Comment: ErrorValue,
	}
}
