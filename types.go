package sol

import (
	"io"
	"os"
	"regexp"
	"strconv"
)

// Library names accepted in Config.Libraries
const (
	LibBase    = "base"
	LibPackage = "package"
	LibTable   = "table"
	LibIO      = "io"
	LibOS      = "os"
	LibString  = "string"
	LibBit32   = "bit32"
	LibMath    = "math"
	LibDebug   = "debug"
)

// Config holds configuration for a State
type Config struct {
	Debug            bool          `yaml:"debug"`
	LogCategories    []LogCategory `yaml:"log_categories"`
	Libraries        []string      `yaml:"libraries"` // empty opens all
	ChunkName        string        `yaml:"chunk_name"`
	ShowErrorContext bool          `yaml:"show_error_context"`
	ContextLines     int           `yaml:"context_lines"`
	Stdout           io.Writer     `yaml:"-"` // destination of print
	LogOutput        io.Writer     `yaml:"-"` // overrides stdout/stderr for log lines
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		ChunkName:        "script",
		ShowErrorContext: true,
		ContextLines:     2,
		Stdout:           os.Stdout,
	}
}

// SourcePosition locates a script failure
type SourcePosition struct {
	Chunk string
	Line  int
}

// ScriptError represents a failed chunk or call
type ScriptError struct {
	Message  string
	Chunk    string
	Position *SourcePosition
	Cause    error
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// positionPattern matches the "chunk:line:" prefix the runtime puts on
// error messages.
var positionPattern = regexp.MustCompile(`^([^:\n]+):(\d+):`)

func parsePosition(message string) *SourcePosition {
	m := positionPattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	line, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	return &SourcePosition{Chunk: m[1], Line: line}
}

// Result is the outcome of Script or Call: the returned values, or the
// failure
type Result struct {
	values []any
	err    *ScriptError
}

// Valid reports whether the chunk ran to completion
func (r *Result) Valid() bool {
	return r.err == nil
}

// Err returns the failure, or nil
func (r *Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Values returns every value the chunk returned
func (r *Result) Values() []any {
	return r.values
}

// Value returns the i-th returned value (0-based), or nil
func (r *Result) Value(i int) any {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Int returns the i-th returned value as an int
func (r *Result) Int(i int) (int, bool) {
	n, ok := r.Value(i).(int)
	return n, ok
}
