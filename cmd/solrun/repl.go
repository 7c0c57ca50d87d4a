package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	sol "github.com/hilkojj/sol2"
)

const (
	historyFile = ".solrun_history"
	promptMain  = "> "
	promptCont  = ">> "
)

func repl(s *sol.State, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "solrun %s. Type :quit to leave.\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, err := readStatement(s, ln)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error reading input: %v\n", err)
			return 1
		}
		trimmed := strings.TrimSpace(code)
		switch trimmed {
		case "":
			continue
		case ":quit", "exit", "quit":
			return 0
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		report(s, evaluate(s, code), stdout)
	}
}

// evaluate runs code as an expression first so that "#c" prints its value,
// falling back to running it as a statement.
func evaluate(s *sol.State, code string) *sol.Result {
	if s.Check("stdin", "return "+code) == nil {
		return s.ScriptNamed("stdin", "return "+code)
	}
	return s.ScriptNamed("stdin", code)
}

// prompter is the part of liner.State the REPL reads from.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readStatement reads lines until they form a chunk that is not cut short.
// End of input and an aborted prompt both report io.EOF.
func readStatement(s *sol.State, ln prompter) (string, error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if err := s.Check("stdin", src); sol.IsIncomplete(err) {
			continue
		}
		return src, nil
	}
}
