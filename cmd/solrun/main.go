// Command solrun runs Lua scripts against host containers declared in a YAML
// configuration file, or starts an interactive session when no script is
// given.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	sol "github.com/hilkojj/sol2"
	"github.com/hilkojj/sol2/pkg/container"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprint(w, `Usage: solrun [options] [script.lua] [-- args...]
       solrun [options] < input.lua
       solrun [options] -e 'print(#c)'

Run Lua against host containers. With no script and a terminal on stdin,
solrun starts an interactive session.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprint(w, `
Config file (YAML):
  debug: true
  log_categories: [classify, dispatch]
  libraries: [base, table, string]
  containers:
    - {name: c, kind: vector, values: [1, 2, 3]}
    - {name: m, kind: map, entries: [{key: 1, value: 10}]}
    - {name: a, kind: array, size: 5}
`)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("solrun", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	debug := fs.Bool("debug", false, "Enable debug logging for the configured categories (all when none)")
	code := fs.String("e", "", "Run `code` instead of a script file")
	libs := fs.String("libs", "", "Comma-separated libraries to open (default all)")
	showVersion := fs.Bool("version", false, "Print the version and exit")
	fs.Usage = usage(fs, stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "solrun %s\n", version)
		return 0
	}

	cfg, err := loadCLIConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *debug {
		cfg.Debug = true
	}
	if *libs != "" {
		cfg.Libraries = strings.Split(*libs, ",")
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	cfg.Stdout = stdout
	cfg.LogOutput = stderr

	s := sol.New(&cfg.Config)
	defer s.Close()
	if cfg.Debug && len(cfg.LogCategories) == 0 {
		s.Logger().EnableAllCategories()
	}
	if err := seed(s, cfg.Containers); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	rest := fs.Args()
	scriptArgs := rest
	for i, a := range rest {
		if a == "--" {
			scriptArgs = append(append([]string{}, rest[:i]...), rest[i+1:]...)
			break
		}
	}

	switch {
	case *code != "":
		s.SetArgs("-e", scriptArgs)
		return report(s, s.ScriptNamed("-e", *code), stdout)

	case len(scriptArgs) > 0 && scriptArgs[0] != "-":
		path := scriptArgs[0]
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading script file: %v\n", err)
			return 1
		}
		s.SetArgs(path, scriptArgs[1:])
		return report(s, s.ScriptNamed(filepath.Base(path), string(content)), stdout)

	case isTerminal(stdin):
		return repl(s, stdout, stderr)

	default:
		content, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading from stdin: %v\n", err)
			return 1
		}
		if len(scriptArgs) > 0 {
			scriptArgs = scriptArgs[1:]
		}
		s.SetArgs("stdin", scriptArgs)
		return report(s, s.ScriptNamed("stdin", string(content)), stdout)
	}
}

// report prints the values a chunk returned and maps failure to exit code 1.
// The failure itself has already been logged.
func report(s *sol.State, r *sol.Result, stdout io.Writer) int {
	if !r.Valid() {
		return 1
	}
	for _, v := range r.Values() {
		fmt.Fprintln(stdout, formatValue(s, v))
	}
	return 0
}

// formatValue renders containers the way tostring does in scripts.
func formatValue(s *sol.State, v any) string {
	if v == nil {
		return "nil"
	}
	if s.Registry().Classify(v).IsContainer() {
		if h, err := s.Registry().Adapt(v); err == nil {
			return container.Format(h)
		}
	}
	return fmt.Sprintf("%v", v)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
