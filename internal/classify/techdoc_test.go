package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"NewsAgent/internal/textfilter"
)

func TestIsTechDocKeywordSignal(t *testing.T) {
	t.Parallel()
	gate := NewTechGate(textfilter.DefaultLexicon())

	assert.True(t, gate.IsTechDoc("제목", "본문", []string{"반도체"}))
	assert.True(t, gate.IsTechDoc("", "", []string{"hbm"}))
}

func TestIsTechDocBodySignal(t *testing.T) {
	t.Parallel()
	gate := NewTechGate(textfilter.DefaultLexicon())

	assert.True(t, gate.IsTechDoc("신제품 발표", "파운드리 수율이 개선됐다", nil))
	assert.True(t, gate.IsTechDoc("Launch", "new AI accelerator", nil))
}

func TestIsTechDocDefaultFalse(t *testing.T) {
	t.Parallel()
	gate := NewTechGate(textfilter.DefaultLexicon())

	// Neither allow-list terms nor the non-tech pattern fire: the gate
	// defaults to exclusion.
	assert.False(t, gate.IsTechDoc("오후 날씨", "전국이 대체로 흐림", nil))
}

func TestIsTechDocNonTechExclusion(t *testing.T) {
	t.Parallel()
	gate := NewTechGate(textfilter.DefaultLexicon())

	assert.False(t, gate.IsTechDoc("주말 예능 소식", "드라마 출연진 공개", nil))
}
