package tokenize

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Analyzer is an external morphological analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]Token, error)
}

// Morphological tokenizes with an Analyzer and falls back to character
// classes when the analyzer fails.
type Morphological struct {
	Analyzer Analyzer
	Log      *slog.Logger
	Timeout  time.Duration
}

func (m *Morphological) Tokens(text string) []Token {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tokens, err := m.Analyzer.Analyze(ctx, text)
	if err != nil {
		if m.Log != nil {
			m.Log.Warn("morphological analyzer failed, using fallback", "error", err)
		}
		return Fallback{}.Tokens(text)
	}
	return tokens
}

// CommandAnalyzer runs an analyzer binary that reads text on stdin and writes
// one JSON token per line: {"form":"저","tag":"NP"}.
type CommandAnalyzer struct {
	Path string
	Args []string
}

func (a *CommandAnalyzer) Analyze(ctx context.Context, text string) ([]Token, error) {
	cmd := exec.CommandContext(ctx, a.Path, a.Args...)
	cmd.Stdin = strings.NewReader(text)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Path, err)
	}
	return decodeTokens(out)
}

func decodeTokens(out []byte) ([]Token, error) {
	var tokens []Token
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var t Token
		if err := json.Unmarshal(line, &t); err != nil {
			return nil, fmt.Errorf("decode token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}
