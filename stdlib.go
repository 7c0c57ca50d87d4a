package sol

import (
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"
)

type libraryEntry struct {
	name   string
	module string
	open   lua.Function
}

// standardLibraries lists the openable libraries in load order.
var standardLibraries = []libraryEntry{
	{LibBase, "_G", lua.BaseOpen},
	{LibPackage, "package", lua.PackageOpen},
	{LibTable, "table", lua.TableOpen},
	{LibIO, "io", lua.IOOpen},
	{LibOS, "os", lua.OSOpen},
	{LibString, "string", lua.StringOpen},
	{LibBit32, "bit32", lua.Bit32Open},
	{LibMath, "math", lua.MathOpen},
	{LibDebug, "debug", lua.DebugOpen},
}

// openLibraries opens the named libraries, or all of them when names is
// empty. Unknown names are logged and skipped.
func (s *State) openLibraries(names []string) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	for _, lib := range standardLibraries {
		if len(names) > 0 && !wanted[lib.name] {
			continue
		}
		delete(wanted, lib.name)
		lua.Require(s.l, lib.module, lib.open, true)
		s.l.Pop(1)
		s.logger.TraceCat(CatConfig, "opened library %s", lib.name)

		if lib.name == LibBase {
			s.l.PushGoFunction(s.print)
			s.l.SetGlobal("print")
		}
	}
	for name := range wanted {
		s.logger.WarnCat(CatConfig, "unknown library %q", name)
	}
}

// print writes its arguments, converted with tostring, to Config.Stdout.
func (s *State) print(l *lua.State) int {
	n := l.Top()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		str, ok := lua.ToStringMeta(l, i)
		if !ok {
			lua.Errorf(l, "'tostring' must return a string to 'print'")
		}
		l.SetTop(n)
		if i > 1 {
			b.WriteByte('\t')
		}
		b.WriteString(str)
	}
	b.WriteByte('\n')
	if _, err := fmt.Fprint(s.stdout, b.String()); err != nil {
		s.logger.WarnCat(CatScript, "print: %v", err)
	}
	return 0
}

// SetArgs binds the global table arg the way standalone interpreters do:
// arg[0] is the script name and arg[1..n] its arguments.
func (s *State) SetArgs(script string, args []string) {
	if s.l == nil {
		return
	}
	s.l.CreateTable(len(args), 1)
	s.l.PushString(script)
	s.l.RawSetInt(-2, 0)
	for i, a := range args {
		s.l.PushString(a)
		s.l.RawSetInt(-2, i+1)
	}
	s.l.SetGlobal("arg")
}
