package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/request"
)

// inputFlags are the ways a command can receive its input. Without --text or
// --file the command reads a JSON request from stdin.
type inputFlags struct {
	text string
	file string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "Input text")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Path to a text file (form feeds separate pages)")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
}

// raw returns --text or the contents of --file, and whether either was set.
func (f *inputFlags) raw() (string, bool, error) {
	switch {
	case f.text != "":
		return f.text, true, nil
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", true, &request.InputError{Message: "unreadable file", Cause: err}
		}
		return strings.ReplaceAll(string(data), "\r\n", "\n"), true, nil
	}
	return "", false, nil
}

func readStdin(cmd *cobra.Command) ([]byte, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// textInput resolves a single text.
func (f *inputFlags) textInput(cmd *cobra.Command) (string, error) {
	text, set, err := f.raw()
	if err != nil || set {
		return text, err
	}
	data, err := readStdin(cmd)
	if err != nil {
		return "", err
	}
	req, err := request.ParseText(data)
	return req.Text, err
}

// pagesInput resolves a page list. Flag input is split on form feeds; stdin
// carries a JSON page request.
func (f *inputFlags) pagesInput(cmd *cobra.Command) (*document.Document, error) {
	text, set, err := f.raw()
	if err != nil {
		return nil, err
	}
	if set {
		title := ""
		if f.file != "" {
			title = strings.TrimSuffix(filepath.Base(f.file), filepath.Ext(f.file))
		}
		doc := document.FromTexts(title, document.SplitPages(text))
		if len(doc.Pages) > 1 && strings.TrimSpace(doc.Pages[len(doc.Pages)-1].Text) == "" {
			doc.Pages = doc.Pages[:len(doc.Pages)-1]
		}
		return doc, nil
	}
	data, err := readStdin(cmd)
	if err != nil {
		return nil, err
	}
	req, err := request.ParsePages(data)
	if err != nil {
		return nil, err
	}
	return req.Document(), nil
}
