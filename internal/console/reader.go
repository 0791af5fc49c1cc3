// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/nova-tui/internal/util"
)

// lineReader reads one line of input per Prompt call.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// =============================================================================
// LINER (interactive)
// =============================================================================

// linerReader adds line editing and persistent history.
type linerReader struct {
	state       *liner.State
	historyFile string
}

func newLinerReader(historyFile string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	r := &linerReader{state: state, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		var buf bytes.Buffer
		if _, err := r.state.WriteHistory(&buf); err == nil {
			_ = util.AtomicWriteFile(r.historyFile, buf.Bytes(), 0600)
		}
	}
	return r.state.Close()
}

// =============================================================================
// SCANNER (piped input)
// =============================================================================

// scanReader reads lines from a non-terminal source. It prints no prompt.
type scanReader struct {
	scanner *bufio.Scanner
}

func newScanReader(in io.Reader) *scanReader {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &scanReader{scanner: s}
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }
