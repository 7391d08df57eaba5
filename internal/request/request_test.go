package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"text":"자기소개서"}`, ""},
		{"blank text", `{"text":"   "}`, "text is empty"},
		{"missing text", `{}`, "text is empty"},
		{"empty body", ``, "empty request body"},
		{"malformed", `{"text":`, "malformed JSON"},
		{"unknown field", `{"text":"a","extra":1}`, "malformed JSON"},
		{"trailing data", `{"text":"a"} {"text":"b"}`, "malformed JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseText([]byte(tt.body))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "자기소개서", req.Text)
				return
			}
			require.Error(t, err)
			assert.True(t, IsInputError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFeedback(t *testing.T) {
	req, err := ParseFeedback([]byte(`{"text":"## 1. 첫 인상\n좋습니다.","normalize":true}`))
	require.NoError(t, err)
	assert.True(t, req.Normalize)
	assert.Equal(t, "## 1. 첫 인상\n좋습니다.", req.Text)

	_, err = ParseFeedback([]byte(`{"normalize":true}`))
	assert.ErrorContains(t, err, "text is empty")
}

func TestParsePages(t *testing.T) {
	req, err := ParsePages([]byte(`{"title":"지원서","pages":[{"text":"이력서","layout":{"has_table":true,"avg_font_size":11.5}},"자기소개서"]}`))
	require.NoError(t, err)

	doc := req.Document()
	assert.Equal(t, "지원서", doc.Title)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 0, doc.Pages[0].Index)
	assert.True(t, doc.Pages[0].Layout.HasTable)
	require.NotNil(t, doc.Pages[0].Layout.AvgFontSize)
	assert.InDelta(t, 11.5, *doc.Pages[0].Layout.AvgFontSize, 1e-9)
	assert.Equal(t, 1, doc.Pages[1].Index)
	assert.Equal(t, "자기소개서", doc.Pages[1].Text)
	assert.False(t, doc.Pages[1].Layout.HasTable)
}

func TestParsePages_BareArray(t *testing.T) {
	req, err := ParsePages([]byte(` ["첫 페이지", "둘째 페이지"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"첫 페이지", "둘째 페이지"}, req.Document().Texts())
}

func TestParsePages_Errors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"missing pages", `{}`, "pages is empty"},
		{"empty list", `{"pages":[]}`, "pages needs at least 1 entries"},
		{"empty array", `[]`, "pages needs at least 1 entries"},
		{"blank pages", `["", "  "]`, "pages contain no text"},
		{"not a list", `{"pages":"text"}`, "malformed JSON"},
		{"bad page", `[1, 2]`, "malformed JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePages([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, IsInputError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage([]byte(`{"text":"이력서","layout":{"has_image":true}}`))
	require.NoError(t, err)
	assert.Equal(t, "이력서", p.Text)
	assert.True(t, p.Layout.HasImage)

	p, err = ParsePage([]byte(`"자기소개서"`))
	require.NoError(t, err)
	assert.Equal(t, "자기소개서", p.Text)

	_, err = ParsePage([]byte(`{"text":""}`))
	assert.True(t, IsInputError(err))
}

func TestInputError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &InputError{Message: "malformed JSON", Cause: cause}

	assert.Equal(t, "invalid input: malformed JSON: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorObject{Error: err.Error()}, ErrorObjectFrom(err))
	assert.Equal(t, "invalid input: text is empty", (&InputError{Message: "text is empty"}).Error())
	assert.False(t, IsInputError(cause))
}
