package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/coverdoc/internal/service"
)

var testImpl = &mcp.Implementation{Name: "coverdoc-test", Version: "0.1.0"}

var (
	resumePage = "이력서\n학력\n경력\n2015.03 입학\n2019.02 졸업\n2019.03 입사\n2023.12 퇴사"
	answer     = strings.Repeat("저는 팀과 함께 문제를 해결하며 성장했습니다. ", 8)
	coverPage  = "자기소개서\n\n1. 지원 동기\n" + answer + "\n2. 입사 후 포부\n" + answer
)

func session(t *testing.T) *mcp.ClientSession {
	t.Helper()
	srv := New(service.New(service.Options{MaxConcurrentPages: 2}, nil), "test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	cs, err := mcp.NewClient(testImpl, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args any) (*mcp.CallToolResult, string) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return res, tc.Text
}

func callJSON(t *testing.T, cs *mcp.ClientSession, name string, args any) map[string]any {
	t.Helper()
	res, text := call(t, cs, name, args)
	require.False(t, res.IsError, text)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func TestTools_Listed(t *testing.T) {
	cs := session(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"coverdoc_classify", "coverdoc_segment", "coverdoc_structure", "coverdoc_items",
		"coverdoc_feedback", "coverdoc_split", "coverdoc_extract",
	}, names)
}

func TestClassify(t *testing.T) {
	cs := session(t)
	out := callJSON(t, cs, "coverdoc_classify", map[string]any{"text": coverPage})
	assert.Equal(t, "cover_letter", out["type"])
}

func TestSegmentAndStructure(t *testing.T) {
	cs := session(t)
	args := map[string]any{"text": "# 지원 동기\n내용 A\n\n# 성장 과정\n내용 B"}

	out := callJSON(t, cs, "coverdoc_segment", args)
	assert.Len(t, out["sections"], 2)

	out = callJSON(t, cs, "coverdoc_structure", args)
	assert.Equal(t, "markdown", out["format_type"])
	assert.Equal(t, []any{"지원 동기", "성장 과정"}, out["section_titles"])
}

func TestItems(t *testing.T) {
	cs := session(t)
	out := callJSON(t, cs, "coverdoc_items", map[string]any{
		"text": "### 1. **문제 해결 능력**\n원인을 찾았습니다.\n### 2. **소통 능력**\n조율했습니다.",
	})
	assert.Equal(t, "numbered-bold", out["strategy"])
	assert.Len(t, out["sections"], 2)
}

func TestFeedback(t *testing.T) {
	cs := session(t)
	out := callJSON(t, cs, "coverdoc_feedback", map[string]any{"text": "그냥 좋은 글입니다."})
	assert.Equal(t, map[string]any{"first_impression": "그냥 좋은 글입니다."}, out["sections"])
}

func TestSplit(t *testing.T) {
	cs := session(t)
	out := callJSON(t, cs, "coverdoc_split", map[string]any{
		"pages": []any{resumePage, resumePage, coverPage},
	})
	assert.Equal(t, float64(2), out["transition_point"])
	assert.Equal(t, true, out["has_cover_letter"])
}

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.txt")
	require.NoError(t, os.WriteFile(path, []byte(resumePage+"\f"+coverPage), 0o644))

	cs := session(t)
	out := callJSON(t, cs, "coverdoc_extract", map[string]any{"path": path})
	assert.Equal(t, "application", out["title"])
	assert.Equal(t, []any{float64(1)}, out["cover_letter_pages"])

	res, text := call(t, cs, "coverdoc_extract", map[string]any{"path": filepath.Join(t.TempDir(), "missing.txt")})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "unreadable path")
}

func TestInputErrorsAreToolErrors(t *testing.T) {
	cs := session(t)
	tests := []struct {
		tool string
		args any
		want string
	}{
		{"coverdoc_segment", map[string]any{"text": "  "}, "text is empty"},
		{"coverdoc_classify", map[string]any{"text": ""}, "text is empty"},
		{"coverdoc_split", map[string]any{"pages": []any{}}, "pages"},
		{"coverdoc_split", map[string]any{"pages": []any{" "}}, "pages contain no text"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			res, text := call(t, cs, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text, tt.want)
		})
	}
}
