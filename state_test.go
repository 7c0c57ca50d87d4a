package sol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Shopify/go-lua"
)

func newTestState(t *testing.T) (*State, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Stdout = out
	cfg.LogOutput = io.Discard
	s := New(cfg)
	t.Cleanup(s.Close)
	return s, out
}

func TestBasicExecution(t *testing.T) {
	s, _ := newTestState(t)

	result := s.Script("x = 1 + 2")
	if !result.Valid() {
		t.Fatalf("script failed: %v", result.Err())
	}
	if n, ok := s.Int("x"); !ok || n != 3 {
		t.Errorf("Expected x == 3, got %v", s.Get("x"))
	}
}

func TestScalarRoundTrip(t *testing.T) {
	s, _ := newTestState(t)

	type celsius float32
	type name string

	values := map[string]any{
		"i":   42,
		"f":   2.5,
		"s":   "hello",
		"b":   true,
		"i16": int16(-7),
		"u8":  uint8(200),
		"c":   celsius(36.5),
		"n":   name("sol"),
	}
	for k, v := range values {
		if err := s.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	if n, ok := s.Int("i"); !ok || n != 42 {
		t.Errorf("Expected 42, got %v", s.Get("i"))
	}
	if f, ok := s.Number("f"); !ok || f != 2.5 {
		t.Errorf("Expected 2.5, got %v", s.Get("f"))
	}
	if str, ok := s.String("s"); !ok || str != "hello" {
		t.Errorf("Expected hello, got %v", s.Get("s"))
	}
	if b, ok := s.Bool("b"); !ok || !b {
		t.Errorf("Expected true, got %v", s.Get("b"))
	}
	if n, _ := s.Int("i16"); n != -7 {
		t.Errorf("Expected -7, got %v", s.Get("i16"))
	}
	if n, _ := s.Int("u8"); n != 200 {
		t.Errorf("Expected 200, got %v", s.Get("u8"))
	}
	if f, _ := s.Number("c"); f != 36.5 {
		t.Errorf("Expected 36.5, got %v", s.Get("c"))
	}
	if str, _ := s.String("n"); str != "sol" {
		t.Errorf("Expected sol, got %v", s.Get("n"))
	}
	if v := s.Get("missing"); v != nil {
		t.Errorf("Expected nil for an unset global, got %v", v)
	}
}

func TestIntegralNumbersReadBackAsInt(t *testing.T) {
	s, _ := newTestState(t)
	r := s.Script("return 4 / 2, 3 / 2")
	if !r.Valid() {
		t.Fatalf("script failed: %v", r.Err())
	}
	if n, ok := r.Int(0); !ok || n != 2 {
		t.Errorf("Expected int 2, got %#v", r.Value(0))
	}
	if f, ok := r.Value(1).(float64); !ok || f != 1.5 {
		t.Errorf("Expected 1.5, got %#v", r.Value(1))
	}
	if r.Value(5) != nil {
		t.Errorf("Expected nil past the last value")
	}
}

func TestScriptErrorCarriesPosition(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogOutput = &logs
	cfg.ChunkName = "positions"
	s := New(cfg)

	r := s.Script("x = 1\nerror('boom')\ny = 2")
	if r.Valid() {
		t.Fatal("Expected the script to fail")
	}
	var se *ScriptError
	if !errors.As(r.Err(), &se) {
		t.Fatalf("Expected *ScriptError, got %T", r.Err())
	}
	if !strings.Contains(se.Message, "boom") {
		t.Errorf("Expected message to mention boom, got %q", se.Message)
	}
	if se.Position == nil || se.Position.Line != 2 || se.Position.Chunk != "positions" {
		t.Errorf("Expected position positions:2, got %+v", se.Position)
	}
	if _, ok := s.Int("y"); ok {
		t.Error("Expected execution to stop at the error")
	}

	out := logs.String()
	if !strings.Contains(out, "[sol:script ERROR]") {
		t.Errorf("Expected the failure to be logged, got %q", out)
	}
	if !strings.Contains(out, ">   2 | error('boom')") {
		t.Errorf("Expected source context in the log, got %q", out)
	}
}

func TestSyntaxError(t *testing.T) {
	s, _ := newTestState(t)
	r := s.Script("x = = 1")
	if r.Valid() {
		t.Fatal("Expected a syntax error")
	}
	if r.Err() == nil || r.Err().Error() == "" {
		t.Error("Expected an error message")
	}
}

func TestCheckAndIncomplete(t *testing.T) {
	s, _ := newTestState(t)

	if err := s.Check("t", "x = 1"); err != nil {
		t.Errorf("Expected valid chunk, got %v", err)
	}
	err := s.Check("t", "for i = 1, 3 do")
	if err == nil || !IsIncomplete(err) {
		t.Errorf("Expected incomplete chunk, got %v", err)
	}
	err = s.Check("t", "x = = 1")
	if err == nil || IsIncomplete(err) {
		t.Errorf("Expected complete syntax error, got %v", err)
	}
	if _, ok := s.Int("x"); ok {
		t.Error("Check must not run the chunk")
	}
}

func TestCall(t *testing.T) {
	s, _ := newTestState(t)
	if r := s.Script("function add(a, b) return a + b, 'done' end"); !r.Valid() {
		t.Fatalf("script failed: %v", r.Err())
	}

	r := s.Call("add", 2, 3)
	if !r.Valid() {
		t.Fatalf("call failed: %v", r.Err())
	}
	if n, _ := r.Int(0); n != 5 {
		t.Errorf("Expected 5, got %v", r.Value(0))
	}
	if r.Value(1) != "done" {
		t.Errorf("Expected done, got %v", r.Value(1))
	}

	if r := s.Call("nope"); r.Valid() {
		t.Error("Expected calling a nil global to fail")
	}
}

func TestGoFunctions(t *testing.T) {
	s, _ := newTestState(t)
	called := 0
	err := s.Set("bump", func(l *lua.State) int {
		called++
		return 0
	})
	if err != nil {
		t.Fatal(err)
	}
	if r := s.Script("bump() bump()"); !r.Valid() {
		t.Fatalf("script failed: %v", r.Err())
	}
	if called != 2 {
		t.Errorf("Expected 2 calls, got %d", called)
	}
}

func TestPrintWritesToConfiguredStdout(t *testing.T) {
	s, out := newTestState(t)
	if r := s.Script("print('a', 1, nil, true)"); !r.Valid() {
		t.Fatalf("script failed: %v", r.Err())
	}
	if got := out.String(); got != "a\t1\tnil\ttrue\n" {
		t.Errorf("Unexpected print output %q", got)
	}
}

func TestSetArgs(t *testing.T) {
	s, _ := newTestState(t)
	s.SetArgs("main.lua", []string{"x", "y"})
	r := s.Script("return #arg, arg[0], arg[2]")
	if !r.Valid() {
		t.Fatalf("script failed: %v", r.Err())
	}
	if n, _ := r.Int(0); n != 2 {
		t.Errorf("Expected 2 args, got %v", r.Value(0))
	}
	if r.Value(1) != "main.lua" || r.Value(2) != "y" {
		t.Errorf("Unexpected args %v", r.Values())
	}
}

func TestLibrarySelection(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogOutput = &logs
	cfg.Libraries = []string{LibBase, "nonsense"}
	s := New(cfg)

	r := s.Script("return type(string), type(print)")
	if !r.Valid() {
		t.Fatalf("script failed: %v", r.Err())
	}
	if r.Value(0) != "nil" || r.Value(1) != "function" {
		t.Errorf("Expected only base to be open, got %v", r.Values())
	}
	if !strings.Contains(logs.String(), `unknown library "nonsense"`) {
		t.Errorf("Expected a warning for the unknown library, got %q", logs.String())
	}
}

func TestClosedState(t *testing.T) {
	s := New(&Config{LogOutput: io.Discard})
	s.Close()

	if r := s.Script("x = 1"); r.Valid() || !errors.Is(r.Err(), ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", r.Err())
	}
	if err := s.Set("x", 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if v := s.Get("x"); v != nil {
		t.Errorf("Expected nil, got %v", v)
	}
}

func TestDebugLoggingByCategory(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.LogOutput = &logs
	cfg.LogCategories = []LogCategory{CatClassify}
	s := New(cfg)

	if err := s.Set("c", &[]int{1}); err != nil {
		t.Fatal(err)
	}
	s.Script("c:add('x')")

	out := logs.String()
	if !strings.Contains(out, "[DEBUG:classify] *[]int classified as sequence") {
		t.Errorf("Expected a classification log line, got %q", out)
	}
	if strings.Contains(out, "[DEBUG:dispatch]") {
		t.Errorf("Dispatch category was not enabled, got %q", out)
	}
}
