package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEvaluation(t *testing.T) {
	t.Run("half-width colon", func(t *testing.T) {
		ev := ParseEvaluation("スコア: 85点\n改善コメント: 視認性を上げるためコントラストを強めてください")
		assert.Equal(t, StatusScored, ev.Status)
		assert.Equal(t, "85点", ev.Score)
		assert.Equal(t, "視認性を上げるためコントラストを強めてください", ev.Comment)
	})

	t.Run("full-width colon", func(t *testing.T) {
		ev := ParseEvaluation("スコア：A\n改善コメント：文字量を減らすと良いでしょう")
		assert.Equal(t, "A", ev.Score)
		assert.Equal(t, "文字量を減らすと良いでしょう", ev.Comment)
	})

	t.Run("surrounding prose is ignored", func(t *testing.T) {
		raw := "以下の通り評価します。\nスコア: 72点\n改善コメント: CTAボタンを大きくしてください\nご参考まで。"
		ev := ParseEvaluation(raw)
		assert.Equal(t, "72点", ev.Score)
		assert.Equal(t, "CTAボタンを大きくしてください", ev.Comment)
	})

	t.Run("missing score falls back", func(t *testing.T) {
		ev := ParseEvaluation("改善コメント: 余白を増やしましょう")
		assert.Equal(t, StatusScored, ev.Status)
		assert.Equal(t, UnparsedValue, ev.Score)
		assert.Equal(t, "余白を増やしましょう", ev.Comment)
	})

	t.Run("missing comment falls back", func(t *testing.T) {
		ev := ParseEvaluation("スコア: 90点")
		assert.Equal(t, "90点", ev.Score)
		assert.Equal(t, UnparsedValue, ev.Comment)
	})

	t.Run("unstructured output yields both sentinels", func(t *testing.T) {
		ev := ParseEvaluation("この画像は全体的に良いバナーだと思います。")
		assert.Equal(t, StatusScored, ev.Status)
		assert.Equal(t, UnparsedValue, ev.Score)
		assert.Equal(t, UnparsedValue, ev.Comment)
	})

	t.Run("idempotent over same raw text", func(t *testing.T) {
		raw := "スコア: 60点\n改善コメント: 配色の見直しを推奨します"
		first := ParseEvaluation(raw)
		second := ParseEvaluation(raw)
		assert.Equal(t, first, second)
	})
}

func TestErrorEvaluation(t *testing.T) {
	ev := ErrorEvaluation()
	assert.Equal(t, StatusError, ev.Status)
	assert.Equal(t, ErrorValue, ev.Score)
	assert.Equal(t, ErrorValue, ev.Comment)
}
