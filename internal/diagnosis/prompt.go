package diagnosis

import (
	"fmt"
	"strings"
)

// Industries whose ad copy is subject to the compliance review.
var regulatedIndustries = map[string]bool{
	"美容": true,
	"健康": true,
	"医療": true,
}

// RegulatedIndustry reports whether scoring in this industry must run the
// compliance review.
func RegulatedIndustry(industry string) bool {
	return regulatedIndustries[industry]
}

// BuildScorePrompt renders the single-image evaluation prompt. The labeled
// output format is load-bearing: ParseEvaluation depends on it.
func BuildScorePrompt(sc ScoreContext) string {
	var b strings.Builder
	b.WriteString("以下の条件のバナー広告画像を評価してください。\n\n")
	fmt.Fprintf(&b, "媒体: %s\n", sc.Platform)
	fmt.Fprintf(&b, "カテゴリ: %s\n", sc.Category)
	fmt.Fprintf(&b, "業種: %s\n", sc.Industry)
	fmt.Fprintf(&b, "ターゲット年齢層: %s\n", sc.AgeGroup)
	fmt.Fprintf(&b, "広告の目的: %s\n", sc.Purpose)
	if sc.Annotations != "" {
		fmt.Fprintf(&b, "補足: %s\n", sc.Annotations)
	}
	b.WriteString("\n視認性、訴求力、ターゲット適合度の観点から総合評価を行い、")
	if sc.ScoreFormat != "" {
		fmt.Fprintf(&b, "スコアは%sで示してください。", sc.ScoreFormat)
	} else {
		b.WriteString("スコアは100点満点で示してください。")
	}
	b.WriteString("\n\n必ず次の形式で回答してください。\n")
	b.WriteString("スコア: [評価]\n")
	b.WriteString("改善コメント: [改善点を1〜2文で]\n")
	return b.String()
}

// BuildCompliancePrompt renders the text-only ad-expression review. The
// reviewer must lead with OK when there is no issue; the caller keys off that
// substring.
func BuildCompliancePrompt(industry, adText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "以下は%s業界のバナー広告に関する文言です。\n", industry)
	b.WriteString("薬機法・景品表示法などの広告表現規制の観点から問題がないか確認してください。\n\n")
	fmt.Fprintf(&b, "文言:\n%s\n\n", adText)
	b.WriteString("問題がなければ「OK」とだけ回答してください。\n")
	b.WriteString("問題がある場合は、該当箇所と理由を簡潔に指摘してください。\n")
	return b.String()
}

// BuildComparePrompt renders the text-only A/B comparison prompt. The judge
// works from each pattern's staged evaluation; no image is sent.
func BuildComparePrompt(sc ScoreContext, slotA, slotB *Slot) string {
	var b strings.Builder
	b.WriteString("AパターンとBパターンの2種類のバナー広告を、以下の評価結果に基づいて比較してください。\n\n")
	if sc.Platform != "" {
		fmt.Fprintf(&b, "媒体: %s\n", sc.Platform)
	}
	if sc.Purpose != "" {
		fmt.Fprintf(&b, "広告の目的: %s\n", sc.Purpose)
	}
	b.WriteString("\n評価結果:\n")
	writeSlotSummary(&b, "Aパターン", slotA)
	writeSlotSummary(&b, "Bパターン", slotB)
	b.WriteString("\nどちらが広告効果が高いと考えられるか、理由とともに判定してください。\n")
	b.WriteString("最後に「AパターンとBパターンのどちらを採用すべきか」を明確に述べてください。\n")
	return b.String()
}

func writeSlotSummary(b *strings.Builder, label string, slot *Slot) {
	fmt.Fprintf(b, "%s — スコア: %s / 改善コメント: %s", label, slot.Score, slot.Comment)
	if slot.Verdict != "" {
		fmt.Fprintf(b, " / 表現チェック: %s", slot.Verdict)
	}
	b.WriteString("\n")
}
