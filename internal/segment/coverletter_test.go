package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// body returns a paragraph comfortably over the minimum section length.
func body(word string) string {
	return strings.TrimSpace(strings.Repeat(word+" 경험을 통해 배웠습니다. ", 10))
}

func TestCoverLetterSections_Strategies(t *testing.T) {
	a, b := body("협력"), body("도전")
	tests := []struct {
		name     string
		text     string
		strategy string
		numbers  []string
		titles   []string
	}{
		{"numbered bold", "1. **지원 동기**\n" + a + "\n2. **입사 후 포부**\n" + b,
			"numbered-bold", []string{"1", "2"}, []string{"지원 동기", "입사 후 포부"}},
		{"markdown numbered bold", "### 1. **지원 동기**\n" + a + "\n### 2. **입사 후 포부**\n" + b,
			"numbered-bold", []string{"1", "2"}, []string{"지원 동기", "입사 후 포부"}},
		{"numbered plain", "1. 지원 동기\n" + a + "\n2) 입사 후 포부\n" + b,
			"numbered-plain", []string{"1", "2"}, []string{"지원 동기", "입사 후 포부"}},
		{"question", "Q1. 지원 동기를 쓰시오\n" + a + "\nQ2. 포부를 쓰시오\n" + b,
			"numbered-plain", []string{"1", "2"}, []string{"지원 동기를 쓰시오", "포부를 쓰시오"}},
		{"item number", "문항 1. 지원 동기\n" + a + "\n문항 2. 성장 과정\n" + b,
			"numbered-plain", []string{"1", "2"}, []string{"지원 동기", "성장 과정"}},
		{"bracket", "[지원 동기]\n" + a + "\n[입사 후 포부]\n" + b,
			"bracket-title", []string{"", ""}, []string{"지원 동기", "입사 후 포부"}},
		{"divider", "지원동기\n---\n" + a + "\n\n성장과정\n===\n" + b,
			"bold-divider", []string{"", ""}, []string{"지원동기", "성장과정"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverLetterSections(tt.text)
			assert.Equal(t, tt.strategy, got.Strategy)
			require.Len(t, got.Sections, len(tt.titles))
			for i, s := range got.Sections {
				assert.Equal(t, tt.numbers[i], s.Number)
				assert.Equal(t, tt.titles[i], s.Title)
				assert.NotContains(t, s.Content, s.Title)
				assert.GreaterOrEqual(t, len([]rune(s.Content)), sectionMinContent)
			}
		})
	}
}

func TestCoverLetterSections_ShortBodiesFallThrough(t *testing.T) {
	got := CoverLetterSections("[지원 동기]\n짧은 답변\n\n\n[포부]\n역시 짧음")

	assert.Equal(t, "blank-line", got.Strategy)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "[지원 동기]", got.Sections[0].Title)
	assert.Equal(t, "짧은 답변", got.Sections[0].Content)
}

func TestCoverLetterSections_Keyword(t *testing.T) {
	text := "지원동기\n" + body("열정") + "\n성장과정\n" + body("가족") + "\n장점과 단점\n" + body("끈기") +
		"\n장점 추가\n" + body("반복")
	require.Greater(t, len([]rune(text)), keywordMinText)

	got := CoverLetterSections(text)

	assert.Equal(t, "keyword", got.Strategy)
	titles := make([]string, len(got.Sections))
	for i, s := range got.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"지원동기", "성장과정", "장점과 단점"}, titles)
}

func TestCoverLetterSections_KeywordNeedsLongText(t *testing.T) {
	got := CoverLetterSections("지원동기\n회사의 비전에 공감하여 지원하게 되었습니다 앞으로도 열심히 하겠습니다")

	assert.Equal(t, "blank-line", got.Strategy)
	require.Len(t, got.Sections, 1)
}

func TestCoverLetterSections_MarkdownFallback(t *testing.T) {
	got := CoverLetterSections("## 지원 동기\n짧은 본문\n## 포부\n짧은 본문")

	assert.Equal(t, "markdown-headings", got.Strategy)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, 2, got.Sections[0].Level)
}

func TestCoverLetterSections_Empty(t *testing.T) {
	got := CoverLetterSections("  ")
	assert.Empty(t, got.Strategy)
	assert.Empty(t, got.Sections)
}

func TestCoverLetterStrategies_Order(t *testing.T) {
	assert.Equal(t,
		[]string{"numbered-bold", "numbered-plain", "bracket-title", "bold-divider", "keyword"},
		CoverLetterStrategies())
}
