package classify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/tokenize"
)

func page(text string) document.Page {
	return document.Page{Text: text}
}

func TestClassify_StrongMarker(t *testing.T) {
	c := New(nil, 1, nil)
	res := c.Classify(page("자기소개서\n\n저는 성실한 사람입니다."))

	assert.Equal(t, CoverLetter, res.Type)
	assert.GreaterOrEqual(t, res.CoverScore, StrongMarkerWeight)
	assert.Zero(t, res.ResumeScore)
}

func TestClassify_StrongMarkerOnlyInLeadingWindow(t *testing.T) {
	c := New(nil, 1, nil)
	res := c.Classify(page(strings.Repeat("가", StrongMarkerWindow) + "자기소개서"))

	assert.Zero(t, res.CoverScore)
	assert.Equal(t, Unknown, res.Type)
}

func TestClassify_Resume(t *testing.T) {
	c := New(nil, 1, nil)
	p := document.Page{
		Index:  3,
		Text:   "이력서\n학력\n경력\n2015.03 입학\n2019.02 졸업\n2019.03 입사\n2023.12 퇴사",
		Layout: document.LayoutHints{HasTable: true},
	}
	res := c.Classify(p)

	assert.Equal(t, 3, res.PageIndex)
	assert.Equal(t, Resume, res.Type)
	assert.Equal(t, 3*ResumeMarkerWeight+DateBonus+TableBonus, res.ResumeScore)
	assert.Zero(t, res.CoverScore)
}

func TestClassify_LayoutHints(t *testing.T) {
	c := New(nil, 1, nil)

	res := c.Classify(document.Page{Layout: document.LayoutHints{HasTable: true}})
	assert.Equal(t, TableBonus, res.ResumeScore)

	res = c.Classify(document.Page{Layout: document.LayoutHints{HasImage: true}})
	assert.Equal(t, ImageBonus, res.ResumeScore)

	res = c.Classify(document.Page{})
	assert.Equal(t, Result{Type: Unknown}, res)
}

func TestClassify_FirstPersonTiers(t *testing.T) {
	c := New(nil, 1, nil)

	res := c.Classify(page(strings.Repeat("저는 노력합니다. ", 3)))
	assert.Equal(t, FirstPersonLowBonus, res.CoverScore)

	res = c.Classify(page(strings.Repeat("저는 노력합니다. ", 6)))
	assert.Equal(t, FirstPersonHighBonus, res.CoverScore)

	res = c.Classify(page(strings.Repeat("저는 노력합니다. ", 2)))
	assert.Zero(t, res.CoverScore)
}

func TestClassify_LongParagraphs(t *testing.T) {
	c := New(nil, 1, nil)
	para := strings.Repeat("나", LongParagraphRunes+1)

	res := c.Classify(page(strings.Join([]string{para, para, para}, "\n\n")))
	assert.Equal(t, LongParagraphBonus, res.CoverScore)

	res = c.Classify(page(strings.Join([]string{para, para}, "\n\n")))
	assert.Zero(t, res.CoverScore)
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(nil, 1, nil)
	p := document.Page{
		Index:  1,
		Text:   "지원 동기\n저는 협업 경험을 통해 성장했습니다. 2020.01 입사",
		Layout: document.LayoutHints{HasImage: true},
	}
	assert.Equal(t, c.Classify(p), c.Classify(p))
}

type panicTokenizer struct{}

func (panicTokenizer) Tokens(string) []tokenize.Token { panic("boom") }

func TestClassify_PanicYieldsUnknown(t *testing.T) {
	c := New(panicTokenizer{}, 1, nil)
	res := c.Classify(document.Page{Index: 7, Text: "자기소개서"})

	assert.Equal(t, Result{PageIndex: 7, Type: Unknown}, res)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		cover, resume int
		want          Type
	}{
		{0, 0, Unknown},
		{1, 0, CoverLetter},
		{0, 1, Resume},
		{3, 2, Mixed}, // exactly 1.5x is not a majority
		{4, 2, CoverLetter},
		{2, 3, Mixed},
		{10, 10, Mixed},
		{10, 15, Mixed},
		{10, 16, Resume},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decide(tt.cover, tt.resume), "cover=%d resume=%d", tt.cover, tt.resume)
	}
}

func TestDecide_SymmetricPartition(t *testing.T) {
	swap := map[Type]Type{CoverLetter: Resume, Resume: CoverLetter, Mixed: Mixed, Unknown: Unknown}
	for c := 0; c <= 40; c++ {
		for r := 0; r <= 40; r++ {
			got := Decide(c, r)
			require.Contains(t, swap, got)
			assert.Equal(t, swap[got], Decide(r, c), "cover=%d resume=%d", c, r)
		}
	}
}

func TestConfidence_Bounds(t *testing.T) {
	for c := 0; c <= 50; c++ {
		for r := 0; r <= 50; r++ {
			conf := Confidence(c, r)
			assert.GreaterOrEqual(t, conf, 0.0)
			assert.LessOrEqual(t, conf, 100.0)
		}
	}
	assert.Zero(t, Confidence(0, 0))
	assert.InDelta(t, 10.0/11.0*100, Confidence(10, 0), 1e-9)
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := New(nil, 4, nil)
	texts := []string{"이력서\n학력\n경력", "자기소개서", "", "Personal Statement", "RESUME Skills Education"}
	pages := document.FromTexts("doc", texts).Pages

	results, err := c.ClassifyAll(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, results, len(pages))
	for i, res := range results {
		assert.Equal(t, i, res.PageIndex)
		assert.Equal(t, c.Classify(pages[i]), res)
	}
}

func TestClassifyAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, 2, nil).ClassifyAll(ctx, document.FromTexts("", []string{"a", "b"}).Pages)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyAll_Empty(t *testing.T) {
	results, err := New(nil, 2, nil).ClassifyAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
