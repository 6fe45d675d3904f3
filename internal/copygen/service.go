package copygen

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rasuta1125/banasukoAI/internal/diagnosis"
	"github.com/rasuta1125/banasukoAI/internal/metrics"
	"github.com/rasuta1125/banasukoAI/internal/session"
)

var (
	ErrPlanRestricted = errors.New("copy generation not available on current plan")
	ErrQuotaExhausted = errors.New("no remaining uses")
)

const copywriterPersona = "あなたは優秀な広告コピーライターです。"

// AIClient is the text-generation surface the service needs.
type AIClient interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// Service generates ad copy variants. Access is gated by plan tier and by a
// positive remaining-uses balance, but generation does not spend a credit;
// credits belong to image scoring.
type Service struct {
	ai AIClient
}

func NewService(aiClient AIClient) *Service {
	return &Service{ai: aiClient}
}

// GenerateInput describes the product being advertised.
type GenerateInput struct {
	Product     string
	Target      string
	AppealPoint string
	Tone        string
	Industry    string
}

// Generate produces the plan's worth of copy variants.
func (s *Service) Generate(ctx context.Context, sess *session.Session, in GenerateInput) ([]string, error) {
	count := CopyCount(sess.Plan)
	if count == 0 {
		metrics.QuotaDenialsTotal.WithLabelValues("plan").Inc()
		return nil, ErrPlanRestricted
	}
	if sess.RemainingUses <= 0 {
		metrics.QuotaDenialsTotal.WithLabelValues("quota").Inc()
		return nil, ErrQuotaExhausted
	}

	raw, err := s.ai.GenerateText(ctx, copywriterPersona, buildPrompt(in, count))
	if err != nil {
		return nil, fmt.Errorf("generating copies: %w", err)
	}

	copies := splitNumbered(raw)
	if len(copies) > count {
		copies = copies[:count]
	}
	return copies, nil
}

func buildPrompt(in GenerateInput, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "以下の商品のバナー広告用キャッチコピーを%d案作成してください。\n\n", count)
	fmt.Fprintf(&b, "商品・サービス: %s\n", in.Product)
	if in.Target != "" {
		fmt.Fprintf(&b, "ターゲット: %s\n", in.Target)
	}
	if in.AppealPoint != "" {
		fmt.Fprintf(&b, "訴求ポイント: %s\n", in.AppealPoint)
	}
	if in.Tone != "" {
		fmt.Fprintf(&b, "トーン: %s\n", in.Tone)
	}
	if diagnosis.RegulatedIndustry(in.Industry) {
		b.WriteString("薬機法・景品表示法に抵触する表現は使わないでください。\n")
	}
	b.WriteString("\n各案は「1. 」のように番号付きで、1行ずつ出力してください。\n")
	return b.String()
}

var numberedLine = regexp.MustCompile(`^\s*\d+[.．、]\s*`)

// splitNumbered extracts numbered variants from the model output. Output
// that carries no numbering at all comes back as a single variant.
func splitNumbered(raw string) []string {
	var copies []string
	for _, line := range strings.Split(raw, "\n") {
		if numberedLine.MatchString(line) {
			copies = append(copies, strings.TrimSpace(numberedLine.ReplaceAllString(line, "")))
		}
	}
	if len(copies) == 0 {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			copies = []string{trimmed}
		}
	}
	return copies
}
