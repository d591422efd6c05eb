package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/domain"
)

func testTaxonomy() domain.Taxonomy {
	return domain.Taxonomy{
		{Name: "A", Subs: []domain.SubCategory{
			{Name: "X", Keywords: []string{"alpha", "beta"}},
			{Name: "X2", Keywords: []string{"gamma"}},
			{Name: "Y", Keywords: []string{"delta"}},
		}},
		{Name: "B", Subs: []domain.SubCategory{
			{Name: "Z", Keywords: []string{"omega"}},
		}},
	}
}

func TestClassifyMultiLabel(t *testing.T) {
	t.Parallel()

	c := NewClassifier(testTaxonomy(), MatchSubstring)
	got := c.Classify("alpha meets omega", "", nil)

	assert.Equal(t, []string{"A", "B"}, got.Mains)
	assert.Equal(t, []string{"X", "Z"}, got.Subs)
	require.Len(t, got.Matched, 2)
}

func TestClassifyTieBreak(t *testing.T) {
	t.Parallel()

	// Two triggers under A/X, one under A/Y, one under B/Z: A wins the
	// main vote 3-1 and X wins the sub vote inside A.
	c := NewClassifier(testTaxonomy(), MatchSubstring)
	got := c.Classify("alpha beta delta omega", "", nil)

	require.Len(t, got.Matched, 4)
	assert.Equal(t, "A", got.PrimaryMain)
	assert.Equal(t, "X", got.PrimarySub)
}

func TestClassifyEqualCountsKeepDeclarationOrder(t *testing.T) {
	t.Parallel()

	// One trigger each under A and B: the tie keeps the earlier-declared
	// main category.
	c := NewClassifier(testTaxonomy(), MatchSubstring)
	got := c.Classify("delta omega", "", nil)

	assert.Equal(t, "A", got.PrimaryMain)
	assert.Equal(t, "Y", got.PrimarySub)
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	c := NewClassifier(domain.DefaultTaxonomy(), MatchSubstring)
	title := "삼성전자, 반도체·배터리 신규 투자 발표"
	summary := "AI 반도체와 이차전지 공장 증설"

	first := c.Classify(title, summary, []string{"반도체", "배터리"})
	for i := 0; i < 5; i++ {
		again := c.Classify(title, summary, []string{"반도체", "배터리"})
		assert.Equal(t, first.PrimaryMain, again.PrimaryMain)
		assert.Equal(t, first.PrimarySub, again.PrimarySub)
		assert.Equal(t, first.Mains, again.Mains)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	t.Parallel()

	c := NewClassifier(testTaxonomy(), MatchSubstring)
	got := c.Classify("nothing relevant here", "", nil)

	assert.Equal(t, []string{domain.MainUnclassified}, got.Mains)
	assert.Equal(t, []string{domain.SubOther}, got.Subs)
	assert.Equal(t, domain.MainUnclassified, got.PrimaryMain)
	assert.Equal(t, domain.SubOther, got.PrimarySub)
	assert.Empty(t, got.Matched)
}

func TestClassifyWordBoundaryMode(t *testing.T) {
	t.Parallel()

	tax := domain.Taxonomy{
		{Name: "디지털·ICT 산업", Subs: []domain.SubCategory{
			{Name: "AI 분야", Keywords: []string{"AI"}},
		}},
	}

	sub := NewClassifier(tax, MatchSubstring)
	word := NewClassifier(tax, MatchWordBoundary)

	// "said" contains "ai" as a substring only.
	assert.NotEmpty(t, sub.Classify("he said hello", "", nil).Matched)
	assert.Empty(t, word.Classify("he said hello", "", nil).Matched)

	assert.NotEmpty(t, word.Classify("new AI chip", "", nil).Matched)
	// Hangul neighbors count as word characters.
	assert.Empty(t, word.Classify("진ai통", "", nil).Matched)
}

func TestClassifyHangulKeywordsAlwaysSubstring(t *testing.T) {
	t.Parallel()

	tax := domain.Taxonomy{
		{Name: "첨단 제조·기술 산업", Subs: []domain.SubCategory{
			{Name: "반도체 분야", Keywords: []string{"반도체"}},
		}},
	}
	word := NewClassifier(tax, MatchWordBoundary)
	assert.NotEmpty(t, word.Classify("차세대반도체연구", "", nil).Matched)
}
