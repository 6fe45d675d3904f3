package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegulatedIndustry(t *testing.T) {
	assert.True(t, RegulatedIndustry("美容"))
	assert.True(t, RegulatedIndustry("健康"))
	assert.True(t, RegulatedIndustry("医療"))
	assert.False(t, RegulatedIndustry("飲食"))
	assert.False(t, RegulatedIndustry(""))
}

func TestBuildScorePrompt(t *testing.T) {
	sc := ScoreContext{
		Platform:    "Instagram",
		Category:    "フィード",
		Industry:    "美容",
		AgeGroup:    "20代",
		Purpose:     "認知拡大",
		ScoreFormat: "100点満点",
		Annotations: "キャンペーン告知",
	}
	prompt := BuildScorePrompt(sc)

	assert.Contains(t, prompt, "Instagram")
	assert.Contains(t, prompt, "美容")
	assert.Contains(t, prompt, "20代")
	assert.Contains(t, prompt, "キャンペーン告知")
	// The labeled answer format must survive any prompt edits.
	assert.Contains(t, prompt, "スコア:")
	assert.Contains(t, prompt, "改善コメント:")
}

func TestBuildScorePrompt_DefaultScoreFormat(t *testing.T) {
	prompt := BuildScorePrompt(ScoreContext{Platform: "X"})
	assert.Contains(t, prompt, "100点満点")
}

func TestBuildCompliancePrompt(t *testing.T) {
	prompt := BuildCompliancePrompt("医療", "飲むだけで必ず痩せる！")
	assert.Contains(t, prompt, "医療")
	assert.Contains(t, prompt, "飲むだけで必ず痩せる！")
	assert.Contains(t, prompt, "OK")
}

func TestBuildComparePrompt(t *testing.T) {
	slotA := &Slot{Pattern: PatternA, Score: "80点", Comment: "配色が良い", Verdict: ResultOK}
	slotB := &Slot{Pattern: PatternB, Score: "65点", Comment: "文字が小さい"}

	prompt := BuildComparePrompt(ScoreContext{Platform: "Instagram", Purpose: "CV獲得"}, slotA, slotB)
	assert.Contains(t, prompt, "Aパターン")
	assert.Contains(t, prompt, "Bパターン")
	assert.Contains(t, prompt, "Instagram")
	assert.Contains(t, prompt, "80点")
	assert.Contains(t, prompt, "文字が小さい")
	assert.Contains(t, prompt, ResultOK)
	// Text-only judgement; the prompt must not ask the model to look at images.
	assert.NotContains(t, prompt, "画像")
}
