package main

import (
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/mcpserver"
	"github.com/dgallion1/coverdoc/internal/request"
	"github.com/dgallion1/coverdoc/internal/service"
)

func (c *cli) classifyCmd() *cobra.Command {
	var in inputFlags
	var pages bool
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a page, or every page with --pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages {
				doc, err := in.pagesInput(cmd)
				if err != nil {
					return err
				}
				res, err := c.svc.ClassifyPages(cmd.Context(), doc)
				if err != nil {
					return err
				}
				return c.write(cmd.OutOrStdout(), map[string]any{"pages": res})
			}

			var page document.Page
			text, set, err := in.raw()
			switch {
			case err != nil:
				return err
			case set:
				page.Text = text
			default:
				data, err := readStdin(cmd)
				if err != nil {
					return err
				}
				if page, err = request.ParsePage(data); err != nil {
					return err
				}
			}
			res, err := c.svc.Classify(page)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), res)
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&pages, "pages", false, "Classify a page list instead of a single page")
	return cmd
}

func (c *cli) segmentCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Split text into titled sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := in.textInput(cmd)
			if err != nil {
				return err
			}
			sections, err := c.svc.Segment(text)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), map[string]any{"sections": sections})
		},
	}
	in.register(cmd)
	return cmd
}

func (c *cli) structureCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Report the format type and section titles of text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := in.textInput(cmd)
			if err != nil {
				return err
			}
			st, err := c.svc.Structure(text)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), st)
		},
	}
	in.register(cmd)
	return cmd
}

func (c *cli) itemsCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Extract numbered items from a feedback report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := in.textInput(cmd)
			if err != nil {
				return err
			}
			parsed, err := c.svc.Items(text)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), parsed)
		},
	}
	in.register(cmd)
	return cmd
}

func (c *cli) feedbackCmd() *cobra.Command {
	var in inputFlags
	var normalize bool
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Extract the standard sections of a feedback report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, set, err := in.raw()
			if err != nil {
				return err
			}
			if !set {
				data, err := readStdin(cmd)
				if err != nil {
					return err
				}
				req, err := request.ParseFeedback(data)
				if err != nil {
					return err
				}
				text, normalize = req.Text, normalize || req.Normalize
			}
			sections, err := c.svc.Feedback(text, normalize)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), map[string]any{"sections": sections})
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Clean particle spacing in each section")
	return cmd
}

func (c *cli) splitCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Separate résumé pages from cover-letter pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := in.pagesInput(cmd)
			if err != nil {
				return err
			}
			res, err := c.svc.Split(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), res)
		},
	}
	in.register(cmd)
	return cmd
}

func (c *cli) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract and split document files (txt, md, pdf, docx, html, csv)",
		Long:  "Extract pages from each file and split it. One file prints its split result; several files print a batch result.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]service.File, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return &request.InputError{Message: "unreadable file", Cause: err}
				}
				files = append(files, service.File{Name: filepath.Base(path), Data: data})
			}

			if len(files) == 1 {
				res, err := c.svc.ExtractFile(cmd.Context(), files[0])
				if err != nil {
					return err
				}
				return c.write(cmd.OutOrStdout(), res)
			}
			res, err := c.svc.Batch(cmd.Context(), files)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), res)
		},
	}
}

func (c *cli) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the coverdoc tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.log.Info("serving mcp over stdio", "version", version)
			return mcpserver.New(c.svc, version).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
