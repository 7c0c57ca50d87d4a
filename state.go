package sol

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/hilkojj/sol2/pkg/container"
)

// ErrClosed is reported by every operation on a State after Close.
var ErrClosed = errors.New("state is closed")

// State is one script runtime together with the container registry and
// usertypes bound into it. A State is not safe for concurrent use.
type State struct {
	l         *lua.State
	config    *Config
	logger    *Logger
	stdout    io.Writer
	registry  *container.Registry
	methods   map[string]lua.Function
	usertypes map[reflect.Type]*Usertype
	names     map[string]*Usertype
	sources   map[string][]string
}

// New creates a State. A nil config uses DefaultConfig().
func New(config *Config) *State {
	if config == nil {
		config = DefaultConfig()
	}
	if config.ChunkName == "" {
		config.ChunkName = "script"
	}

	logger := NewLogger(config.Debug)
	if config.LogOutput != nil {
		logger.SetOutput(config.LogOutput, config.LogOutput)
	}
	logger.SetContextLines(config.ContextLines)
	for _, cat := range config.LogCategories {
		logger.EnableCategory(cat)
	}

	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	s := &State{
		l:         lua.NewState(),
		config:    config,
		logger:    logger,
		stdout:    stdout,
		registry:  container.NewRegistry(),
		usertypes: make(map[reflect.Type]*Usertype),
		names:     make(map[string]*Usertype),
		sources:   make(map[string][]string),
	}
	s.registry.OnClassify(func(d *container.Descriptor) {
		s.logger.DebugCat(CatClassify, "%v classified as %s", d.Type, d)
	})

	s.openLibraries(config.Libraries)
	s.registerContainerType()
	s.registerObjectType()
	return s
}

// Logger returns the state's logger.
func (s *State) Logger() *Logger {
	return s.logger
}

// Registry returns the container registry used when values are pushed.
func (s *State) Registry() *container.Registry {
	return s.registry
}

// Mark overrides container classification for t.
func (s *State) Mark(t reflect.Type, ov container.Override) {
	s.logger.DebugCat(CatRegistry, "marking %v as %s", t, ov.Mode)
	s.registry.Mark(t, ov)
}

// Set binds v to the global name. Containers passed by pointer (or wrapped
// with container.Ref or container.AsContainer) alias host storage; slices,
// arrays and maps passed by value are copied into script-owned storage.
func (s *State) Set(name string, v any) error {
	if s.l == nil {
		return ErrClosed
	}
	if err := s.push(s.l, v); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	s.l.SetGlobal(name)
	return nil
}

// Get returns the global name as a host value: numbers come back as int when
// integral, containers as the host value they operate on. Tables and
// functions read as nil.
func (s *State) Get(name string) any {
	if s.l == nil {
		return nil
	}
	s.l.Global(name)
	defer s.l.Pop(1)
	v, _ := s.toGo(s.l, -1)
	return v
}

// Int returns the global name as an int.
func (s *State) Int(name string) (int, bool) {
	n, ok := s.Get(name).(int)
	return n, ok
}

// Number returns the global name as a float64.
func (s *State) Number(name string) (float64, bool) {
	switch n := s.Get(name).(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// String returns the global name as a string. Numbers are not converted.
func (s *State) String(name string) (string, bool) {
	str, ok := s.Get(name).(string)
	return str, ok
}

// Bool returns the global name as a bool.
func (s *State) Bool(name string) (bool, bool) {
	b, ok := s.Get(name).(bool)
	return b, ok
}

// Lookup reads the global name and asserts it to T. Containers read back as
// the value their handle operates on, so a slice pushed by value is looked up
// as *[]E.
func Lookup[T any](s *State, name string) (T, bool) {
	v, ok := s.Get(name).(T)
	return v, ok
}

// Script runs code as a chunk named Config.ChunkName.
func (s *State) Script(code string) *Result {
	return s.ScriptNamed(s.config.ChunkName, code)
}

// ScriptNamed runs code as a chunk called name. It never panics; failures
// are reported through the Result.
func (s *State) ScriptNamed(name, code string) *Result {
	if s.l == nil {
		return &Result{err: &ScriptError{Message: ErrClosed.Error(), Chunk: name, Cause: ErrClosed}}
	}
	s.sources[name] = strings.Split(code, "\n")
	top := s.l.Top()
	s.logger.TraceCat(CatScript, "running chunk %s", name)
	if err := lua.LoadBuffer(s.l, code, "="+name, ""); err != nil {
		return s.failure(name, top, err)
	}
	if err := s.l.ProtectedCall(0, lua.MultipleReturns, 0); err != nil {
		return s.failure(name, top, err)
	}
	return s.collect(top)
}

// Check compiles code without running it and returns the syntax error, if
// any.
func (s *State) Check(name, code string) error {
	if s.l == nil {
		return ErrClosed
	}
	top := s.l.Top()
	defer s.l.SetTop(top)
	if err := lua.LoadBuffer(s.l, code, "="+name, ""); err != nil {
		message, ok := s.l.ToString(-1)
		if !ok {
			message = err.Error()
		}
		return &ScriptError{Message: message, Chunk: name, Position: parsePosition(message), Cause: err}
	}
	return nil
}

// IsIncomplete reports whether err is a syntax error caused by the chunk
// ending early, so that more input could complete it.
func IsIncomplete(err error) bool {
	var se *ScriptError
	return errors.As(err, &se) && strings.Contains(se.Message, "<eof>")
}

// Call calls the global function name with args.
func (s *State) Call(name string, args ...any) *Result {
	if s.l == nil {
		return &Result{err: &ScriptError{Message: ErrClosed.Error(), Chunk: name, Cause: ErrClosed}}
	}
	top := s.l.Top()
	s.l.Global(name)
	for _, arg := range args {
		if err := s.push(s.l, arg); err != nil {
			s.l.SetTop(top)
			se := &ScriptError{Message: fmt.Sprintf("call %s: %v", name, err), Chunk: name, Cause: err}
			s.logger.ScriptError(se, nil)
			return &Result{err: se}
		}
	}
	s.logger.TraceCat(CatScript, "calling %s with %d arguments", name, len(args))
	if err := s.l.ProtectedCall(len(args), lua.MultipleReturns, 0); err != nil {
		return s.failure(name, top, err)
	}
	return s.collect(top)
}

// Close releases the runtime. Later operations report ErrClosed.
func (s *State) Close() {
	s.l = nil
	s.sources = nil
}

func (s *State) collect(top int) *Result {
	n := s.l.Top() - top
	values := make([]any, n)
	for i := 0; i < n; i++ {
		values[i], _ = s.toGo(s.l, top+1+i)
	}
	s.l.SetTop(top)
	return &Result{values: values}
}

func (s *State) failure(chunk string, top int, err error) *Result {
	message, ok := s.l.ToString(-1)
	if !ok {
		message = err.Error()
	}
	s.l.SetTop(top)

	se := &ScriptError{
		Message:  message,
		Chunk:    chunk,
		Position: parsePosition(message),
		Cause:    err,
	}
	var context []string
	if s.config.ShowErrorContext && se.Position != nil {
		context = s.sources[se.Position.Chunk]
	}
	s.logger.ScriptError(se, context)
	return &Result{err: se}
}
