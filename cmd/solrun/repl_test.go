package main

import (
	"errors"
	"io"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sol "github.com/hilkojj/sol2"
)

// scriptedPrompter replays lines, then fails with err.
type scriptedPrompter struct {
	lines   []string
	err     error
	prompts []string
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", p.err
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func newREPLState(t *testing.T) *sol.State {
	t.Helper()
	s := sol.New(&sol.Config{LogOutput: io.Discard, Stdout: io.Discard})
	t.Cleanup(s.Close)
	return s
}

func TestReadStatementJoinsContinuationLines(t *testing.T) {
	s := newREPLState(t)
	p := &scriptedPrompter{lines: []string{"for i = 1, 2 do", "x = i", "end"}, err: io.EOF}

	code, err := readStatement(s, p)
	require.NoError(t, err)
	assert.Equal(t, "for i = 1, 2 do\nx = i\nend", code)
	assert.Equal(t, []string{promptMain, promptCont, promptCont}, p.prompts)
}

func TestReadStatementEndOfInput(t *testing.T) {
	s := newREPLState(t)

	for name, err := range map[string]error{"eof": io.EOF, "aborted": liner.ErrPromptAborted} {
		t.Run(name, func(t *testing.T) {
			_, got := readStatement(s, &scriptedPrompter{err: err})
			assert.ErrorIs(t, got, io.EOF)
		})
	}
}

func TestReadStatementReportsPromptFailure(t *testing.T) {
	s := newREPLState(t)
	broken := errors.New("terminal went away")

	_, err := readStatement(s, &scriptedPrompter{lines: []string{"if x then"}, err: broken})
	assert.ErrorIs(t, err, broken)
}
