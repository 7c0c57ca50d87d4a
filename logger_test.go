package sol

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(enabled bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := NewLogger(enabled)
	l.SetOutput(&out, &errOut)
	return l, &out, &errOut
}

func TestLoggerSeverityRouting(t *testing.T) {
	l, out, errOut := newTestLogger(false)

	l.Error("bad %d", 1)
	l.ErrorCat(CatDispatch, "erase failed")
	l.Warn("careful")
	l.WarnCat(CatConfig, "unknown library %q", "ffi")
	l.Debug("hidden")
	l.DebugCat(CatClassify, "hidden too")

	if out.Len() != 0 {
		t.Errorf("Expected no debug output while disabled, got %q", out.String())
	}
	want := []string{
		"[sol ERROR] bad 1",
		"[sol:dispatch ERROR] erase failed",
		"[sol WARN] careful",
		`[sol:config WARN] unknown library "ffi"`,
	}
	got := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("Expected %d lines, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLoggerCategories(t *testing.T) {
	l, out, _ := newTestLogger(false)

	l.EnableCategory(CatDispatch)
	l.DebugCat(CatDispatch, "still disabled")
	if out.Len() != 0 {
		t.Fatalf("Expected nothing before SetEnabled, got %q", out.String())
	}

	l.SetEnabled(true)
	l.Debug("uncategorized")
	l.DebugCat(CatDispatch, "dispatch on")
	l.DebugCat(CatIterate, "iterate off")
	if !strings.Contains(out.String(), "[DEBUG] uncategorized") {
		t.Errorf("Expected uncategorized debug output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "[DEBUG:dispatch] dispatch on") {
		t.Errorf("Expected dispatch output, got %q", out.String())
	}
	if strings.Contains(out.String(), "iterate off") {
		t.Errorf("Iterate category was not enabled, got %q", out.String())
	}

	l.DisableCategory(CatDispatch)
	if l.IsCategoryEnabled(CatDispatch) {
		t.Error("Expected dispatch to be disabled")
	}

	l.EnableAllCategories()
	for _, cat := range allCategories {
		if !l.IsCategoryEnabled(cat) {
			t.Errorf("Expected %s to be enabled", cat)
		}
	}
	out.Reset()
	l.TraceCat(CatIterate, "now visible")
	if got := out.String(); got != "[TRACE:iterate] now visible\n" {
		t.Errorf("Unexpected trace output %q", got)
	}
}

func TestLoggerSourceContext(t *testing.T) {
	l, _, errOut := newTestLogger(false)
	l.SetContextLines(1)

	source := []string{"a = 1", "b = 2", "error('x')", "c = 3", "d = 4"}
	l.ScriptError(&ScriptError{
		Message:  "chunk:3: x",
		Position: &SourcePosition{Chunk: "chunk", Line: 3},
	}, source)

	want := "[sol:script ERROR] chunk:3: x\n" +
		"  at line 3 in chunk\n" +
		"\n" +
		"      2 | b = 2\n" +
		"  >   3 | error('x')\n" +
		"      4 | c = 3\n"
	if got := errOut.String(); got != want {
		t.Errorf("Unexpected context rendering:\n%s\nwant:\n%s", got, want)
	}
}
