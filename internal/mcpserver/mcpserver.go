// Package mcpserver exposes the engine operations as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/coverdoc/internal/request"
	"github.com/dgallion1/coverdoc/internal/service"
)

// handler runs one tool call on its raw JSON arguments.
type handler func(ctx context.Context, args json.RawMessage) (any, error)

// New creates an MCP server with every coverdoc tool registered.
func New(svc *service.Service, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "coverdoc", Version: version}, nil)
	Register(srv, svc)
	return srv
}

// Register adds the coverdoc tools to srv.
func Register(srv *mcp.Server, svc *service.Service) {
	textSchema := inputSchema(map[string]any{
		"text": map[string]any{"type": "string", "description": "Document text"},
	}, []string{"text"})
	pagesSchema := inputSchema(map[string]any{
		"title": map[string]any{"type": "string"},
		"pages": map[string]any{
			"type":        "array",
			"description": "Pages in order; each a string or {text, layout}",
			"items":       map[string]any{},
		},
	}, []string{"pages"})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_classify",
		Description: "Classify one page as resume, cover_letter, mixed, or unknown.",
		InputSchema: inputSchema(map[string]any{
			"text": map[string]any{"type": "string"},
			"layout": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"has_table":     map[string]any{"type": "boolean"},
					"has_image":     map[string]any{"type": "boolean"},
					"has_links":     map[string]any{"type": "boolean"},
					"avg_font_size": map[string]any{"type": "number"},
				},
			},
		}, []string{"text"}),
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		page, err := request.ParsePage(args)
		if err != nil {
			return nil, err
		}
		return svc.Classify(page)
	})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_segment",
		Description: "Split text into titled sections by markdown headings or blank-line runs.",
		InputSchema: textSchema,
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		req, err := request.ParseText(args)
		if err != nil {
			return nil, err
		}
		sections, err := svc.Segment(req.Text)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sections": sections}, nil
	})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_structure",
		Description: "Report format type and section titles of a text.",
		InputSchema: textSchema,
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		req, err := request.ParseText(args)
		if err != nil {
			return nil, err
		}
		return svc.Structure(req.Text)
	})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_items",
		Description: "Extract numbered items from a feedback report.",
		InputSchema: textSchema,
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		req, err := request.ParseText(args)
		if err != nil {
			return nil, err
		}
		return svc.Items(req.Text)
	})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_feedback",
		Description: "Extract the five standard sections of a feedback report.",
		InputSchema: inputSchema(map[string]any{
			"text":      map[string]any{"type": "string"},
			"normalize": map[string]any{"type": "boolean", "description": "Clean particle spacing"},
		}, []string{"text"}),
	}, func(_ context.Context, args json.RawMessage) (any, error) {
		req, err := request.ParseFeedback(args)
		if err != nil {
			return nil, err
		}
		sections, err := svc.Feedback(req.Text, req.Normalize)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sections": sections}, nil
	})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_split",
		Description: "Separate resume pages from cover-letter pages and segment the cover letter.",
		InputSchema: pagesSchema,
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		req, err := request.ParsePages(args)
		if err != nil {
			return nil, err
		}
		return svc.Split(ctx, req.Document())
	})

	addTool(srv, &mcp.Tool{
		Name:        "coverdoc_extract",
		Description: "Read a local document file (txt, md, pdf, docx, html, csv) and split it.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to extract"},
		}, []string{"path"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Path string `json:"path"`
		}
		if err := request.Decode(args, &req); err != nil {
			return nil, err
		}
		if req.Path == "" {
			return nil, &request.InputError{Message: "path is empty"}
		}
		data, err := os.ReadFile(req.Path)
		if err != nil {
			return nil, &request.InputError{Message: "unreadable path", Cause: err}
		}
		return svc.ExtractFile(ctx, service.File{Name: filepath.Base(req.Path), Data: data})
	})
}

func addTool(srv *mcp.Server, tool *mcp.Tool, h handler) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := h(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
