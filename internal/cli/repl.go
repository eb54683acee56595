// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"

	"github.com/doover17/chatcli/internal/config"
)

// errInterrupted is returned by a lineReader when the user presses Ctrl+C.
var errInterrupted = errors.New("interrupted")

// lineReader reads one line of user input after printing a prompt.
// It returns io.EOF at end of input and errInterrupted on Ctrl+C.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// newLineReader picks line editing with persistent input history when both
// ends are terminals, and a plain buffered reader otherwise.
func newLineReader(in io.Reader, out io.Writer) lineReader {
	if isTerminal(in) && isTerminal(out) {
		return newLinerReader()
	}
	return &bufferedReader{in: bufio.NewReader(in), out: out}
}

// =============================================================================
// LINER
// =============================================================================

type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader() *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetMultiLineMode(true)

	r := &linerReader{state: state}
	if dir, err := config.Dir(); err == nil {
		r.historyPath = filepath.Join(dir, "input_history")
		if f, err := os.Open(r.historyPath); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				log.Debug().Err(err).Msg("failed to read input history")
			}
			f.Close()
		}
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errInterrupted
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal and writes the input history back.
func (r *linerReader) Close() error {
	if r.historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyPath), 0700); err == nil {
			if f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				if _, err := r.state.WriteHistory(f); err != nil {
					log.Debug().Err(err).Msg("failed to write input history")
				}
				f.Close()
			}
		}
	}
	return r.state.Close()
}

// =============================================================================
// BUFFERED
// =============================================================================

// bufferedReader serves piped input and tests.
type bufferedReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *bufferedReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *bufferedReader) Close() error {
	return nil
}
