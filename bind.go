package sol

import (
	"reflect"

	"github.com/Shopify/go-lua"

	"github.com/hilkojj/sol2/pkg/container"
)

const containerMeta = "sol.container"

// push converts v and pushes it onto the stack. Scalars become script
// values, functions stay callable, containers become handles and everything
// else is wrapped as an object.
func (s *State) push(l *lua.State, v any) error {
	if pushScalar(l, v) {
		return nil
	}
	switch x := v.(type) {
	case lua.Function:
		l.PushGoFunction(x)
		return nil
	case func(*lua.State) int:
		l.PushGoFunction(x)
		return nil
	case *container.Handle:
		s.pushHandle(l, x)
		return nil
	case container.Forced, container.Reference:
		h, err := s.registry.Adapt(x)
		if err != nil {
			return err
		}
		s.pushHandle(l, h)
		return nil
	}

	if s.registry.Classify(v).IsContainer() {
		h, err := s.registry.Adapt(v)
		if err != nil {
			return err
		}
		s.pushHandle(l, h)
		return nil
	}
	s.pushObject(l, v, s.usertypes[reflect.TypeOf(v)])
	return nil
}

// pushScalar handles nil, booleans, numbers and strings, including named
// types over them.
func pushScalar(l *lua.State, v any) bool {
	switch x := v.(type) {
	case nil:
		l.PushNil()
		return true
	case bool:
		l.PushBoolean(x)
		return true
	case int:
		l.PushInteger(x)
		return true
	case float64:
		l.PushNumber(x)
		return true
	case string:
		l.PushString(x)
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		l.PushBoolean(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		l.PushNumber(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		l.PushNumber(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		l.PushNumber(rv.Float())
	case reflect.String:
		l.PushString(rv.String())
	default:
		return false
	}
	return true
}

// toGo reads the value at index as a host value. ok is false for values
// without a host representation (tables, functions, threads); those read as
// nil.
func (s *State) toGo(l *lua.State, index int) (v any, ok bool) {
	switch l.TypeOf(index) {
	case lua.TypeNil, lua.TypeNone:
		return nil, true
	case lua.TypeBoolean:
		return l.ToBoolean(index), true
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return container.Normalize(n), true
	case lua.TypeString:
		str, _ := l.ToString(index)
		return str, true
	case lua.TypeUserData:
		switch ud := l.ToUserData(index).(type) {
		case *container.Handle:
			return ud.Value(), true
		case *object:
			return ud.value, true
		default:
			return ud, true
		}
	}
	return nil, false
}

// args converts the arguments from index first to the top of the stack,
// raising a script error for values that cannot cross into the host.
func (s *State) args(l *lua.State, first int) []any {
	top := l.Top()
	if top < first {
		return nil
	}
	out := make([]any, 0, top-first+1)
	for i := first; i <= top; i++ {
		v, ok := s.toGo(l, i)
		if !ok {
			lua.ArgumentError(l, i, "cannot pass a "+lua.TypeNameOf(l, i)+" to the host")
		}
		out = append(out, v)
	}
	return out
}

func (s *State) arg(l *lua.State, index int) any {
	v, ok := s.toGo(l, index)
	if !ok {
		lua.ArgumentError(l, index, "cannot pass a "+lua.TypeNameOf(l, index)+" to the host")
	}
	return v
}

// raise reports err as a script error. It does not return.
func (s *State) raise(l *lua.State, err error) {
	s.logger.DebugCat(CatDispatch, "%v", err)
	lua.Errorf(l, "%s", err.Error())
}

func (s *State) pushHandle(l *lua.State, h *container.Handle) {
	l.PushUserData(h)
	lua.SetMetaTableNamed(l, containerMeta)
}

func handleArg(l *lua.State) *container.Handle {
	h, ok := l.ToUserData(1).(*container.Handle)
	if !ok {
		lua.ArgumentError(l, 1, "container expected, got "+lua.TypeNameOf(l, 1))
	}
	return h
}

// pushIterator pushes the (next, self, nil) triple pairs and ipairs expect.
func (s *State) pushIterator(l *lua.State, it container.Iterator) int {
	l.PushGoFunction(func(l *lua.State) int {
		k, v, ok := it.Next()
		if !ok {
			l.PushNil()
			return 1
		}
		if err := s.push(l, k); err != nil {
			s.raise(l, err)
		}
		if err := s.push(l, v); err != nil {
			s.raise(l, err)
		}
		return 2
	})
	l.PushValue(1)
	l.PushNil()
	return 3
}

func (s *State) pushResult(l *lua.State, v any, found bool) int {
	if !found {
		l.PushNil()
		return 1
	}
	if err := s.push(l, v); err != nil {
		s.raise(l, err)
	}
	return 1
}

// registerContainerType creates the metatable shared by every container
// handle. Method names take precedence over string keys in c.name lookups;
// use c:get("name") to reach such a key.
func (s *State) registerContainerType() {
	s.methods = map[string]lua.Function{
		"find": func(l *lua.State) int {
			h := handleArg(l)
			v, found, err := h.Find(s.arg(l, 2))
			if err != nil {
				s.raise(l, err)
			}
			return s.pushResult(l, v, found)
		},
		"index_of": func(l *lua.State) int {
			h := handleArg(l)
			v, found, err := h.IndexOf(s.arg(l, 2))
			if err != nil {
				s.raise(l, err)
			}
			return s.pushResult(l, v, found)
		},
		"get": func(l *lua.State) int {
			h := handleArg(l)
			v, found, err := h.Get(s.arg(l, 2))
			if err != nil {
				s.raise(l, err)
			}
			return s.pushResult(l, v, found)
		},
		"set": func(l *lua.State) int {
			h := handleArg(l)
			var value any
			if l.Top() < 3 && h.Descriptor().IsSet() {
				value = true
			} else {
				value = s.arg(l, 3)
			}
			if err := h.Set(s.arg(l, 2), value); err != nil {
				s.raise(l, err)
			}
			return 0
		},
		"add": func(l *lua.State) int {
			h := handleArg(l)
			if err := h.Add(s.args(l, 2)...); err != nil {
				s.raise(l, err)
			}
			return 0
		},
		"insert": func(l *lua.State) int {
			h := handleArg(l)
			if err := h.Insert(s.arg(l, 2), s.arg(l, 3)); err != nil {
				s.raise(l, err)
			}
			return 0
		},
		"erase": func(l *lua.State) int {
			h := handleArg(l)
			if err := h.Erase(s.arg(l, 2)); err != nil {
				s.raise(l, err)
			}
			return 0
		},
		"clear": func(l *lua.State) int {
			if err := handleArg(l).Clear(); err != nil {
				s.raise(l, err)
			}
			return 0
		},
		"size": func(l *lua.State) int {
			l.PushInteger(handleArg(l).Len())
			return 1
		},
		"empty": func(l *lua.State) int {
			l.PushBoolean(handleArg(l).Len() == 0)
			return 1
		},
	}

	pairs := func(l *lua.State) int {
		h := handleArg(l)
		s.logger.TraceCat(CatIterate, "iterating %s container", h.Kind())
		return s.pushIterator(l, h.Iterate())
	}

	lua.NewMetaTable(s.l, containerMeta)
	lua.SetFunctions(s.l, []lua.RegistryFunction{
		{Name: "__index", Function: func(l *lua.State) int {
			h := handleArg(l)
			// ToString converts numbers in place, so check the type first.
			if l.TypeOf(2) == lua.TypeString {
				name, _ := l.ToString(2)
				if fn, ok := s.methods[name]; ok {
					l.PushGoFunction(fn)
					return 1
				}
			}
			v, found, err := h.Get(s.arg(l, 2))
			if err != nil {
				s.raise(l, err)
			}
			return s.pushResult(l, v, found)
		}},
		{Name: "__newindex", Function: func(l *lua.State) int {
			h := handleArg(l)
			if err := h.Set(s.arg(l, 2), s.arg(l, 3)); err != nil {
				s.raise(l, err)
			}
			return 0
		}},
		{Name: "__len", Function: func(l *lua.State) int {
			l.PushInteger(handleArg(l).Len())
			return 1
		}},
		{Name: "__pairs", Function: pairs},
		{Name: "__ipairs", Function: pairs},
		{Name: "__tostring", Function: func(l *lua.State) int {
			l.PushString(container.Format(handleArg(l)))
			return 1
		}},
	}, 0)
	s.l.Pop(1)
}
