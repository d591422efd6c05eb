package keywords

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/infrastructure/nlp"
	"NewsAgent/internal/textfilter"
)

func TestExtractRanksByFrequency(t *testing.T) {
	t.Parallel()

	ex := New(nlp.NewRuleTokenizer(), textfilter.DefaultLexicon(), true)
	text := "반도체 공정 발표. 반도체 수요 증가. 배터리 양산. 반도체 투자, 배터리 기술."

	got, err := ex.Extract(context.Background(), text, 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "반도체", got[0])
	assert.Contains(t, got, "배터리")
}

func TestExtractHonorsTopK(t *testing.T) {
	t.Parallel()

	ex := New(nlp.NewRuleTokenizer(), textfilter.DefaultLexicon(), true)
	text := "AI 반도체 배터리 클라우드 보안 로봇 통신 메모리 센서 플랫폼"

	got, err := ex.Extract(context.Background(), text, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 3)
}

func TestExtractNeverReturnsMeaninglessTokens(t *testing.T) {
	t.Parallel()

	lex := textfilter.DefaultLexicon()
	ex := New(nlp.NewRuleTokenizer(), lex, false)
	text := "오늘 기자 간담회에서 2024 ... 반도체 수율 개선을 발표했다"

	got, err := ex.Extract(context.Background(), text, 20)
	require.NoError(t, err)
	for _, kw := range got {
		assert.False(t, lex.IsMeaningless(kw), "meaningless keyword leaked: %q", kw)
	}
}

func TestExtractStrictFallsBackToNouns(t *testing.T) {
	t.Parallel()

	// No tech vocabulary at all, but Hangul nouns of length >= 2 exist:
	// strict mode must still return something.
	ex := New(nlp.NewRuleTokenizer(), textfilter.DefaultLexicon(), true)
	text := "시장 점유율 조사 결과 발표"

	got, err := ex.Extract(context.Background(), text, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestExtractEmptyText(t *testing.T) {
	t.Parallel()

	ex := New(nlp.NewRuleTokenizer(), textfilter.DefaultLexicon(), true)
	got, err := ex.Extract(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
