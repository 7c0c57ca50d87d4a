package sol

import (
	"fmt"
	"reflect"

	"github.com/Shopify/go-lua"

	"github.com/hilkojj/sol2/pkg/container"
)

const objectMeta = "sol.object"

// Method is a usertype method. self is the host value the script called it
// on; args are the remaining call arguments converted to host values.
type Method func(self any, args []any) ([]any, error)

// Usertype exposes a host type to scripts as a class: Name.new(...) and
// Name(...) construct instances, and instances carry Methods.
type Usertype struct {
	Name string
	// Type is the dynamic type of instances. Values of this type pushed with
	// State.Set use this usertype unless they classify as containers.
	Type reflect.Type

	New     func(args []any) (any, error)
	Methods map[string]Method

	// Call backs the call operator on instances.
	Call Method

	// Len backs #obj. When nil and instances implement container.Iterable,
	// their Len is used.
	Len func(self any) int

	// Format backs tostring(obj) and print(obj).
	Format func(self any) string

	meta string
}

// object is the payload of every non-container userdata.
type object struct {
	value any
	ut    *Usertype
}

func (s *State) pushObject(l *lua.State, v any, ut *Usertype) {
	l.PushUserData(&object{value: v, ut: ut})
	if ut != nil {
		lua.SetMetaTableNamed(l, ut.meta)
		return
	}
	lua.SetMetaTableNamed(l, objectMeta)
}

// registerObjectType creates the metatable for host values without a
// usertype. They can be passed around and printed, nothing more.
func (s *State) registerObjectType() {
	lua.NewMetaTable(s.l, objectMeta)
	lua.SetFunctions(s.l, []lua.RegistryFunction{
		{Name: "__tostring", Function: func(l *lua.State) int {
			obj, _ := l.ToUserData(1).(*object)
			if obj == nil {
				l.PushString("object")
				return 1
			}
			l.PushString(fmt.Sprintf("object<%T>", obj.value))
			return 1
		}},
	}, 0)
	s.l.Pop(1)
}

func (s *State) objectArg(l *lua.State, ut *Usertype) *object {
	obj, ok := l.ToUserData(1).(*object)
	if !ok || obj.ut != ut {
		lua.ArgumentError(l, 1, ut.Name+" expected, got "+lua.TypeNameOf(l, 1))
	}
	return obj
}

// invoke runs m and pushes its results.
func (s *State) invoke(l *lua.State, ut *Usertype, name string, m Method, self any, args []any) int {
	s.logger.TraceCat(CatUsertype, "%s:%s with %d arguments", ut.Name, name, len(args))
	out, err := m(self, args)
	if err != nil {
		s.raise(l, fmt.Errorf("%s:%s: %w", ut.Name, name, err))
	}
	for _, v := range out {
		if err := s.push(l, v); err != nil {
			s.raise(l, err)
		}
	}
	return len(out)
}

// NewUsertype registers ut and binds its class table to the global ut.Name.
func (s *State) NewUsertype(ut *Usertype) error {
	if s.l == nil {
		return ErrClosed
	}
	if ut.Name == "" {
		return fmt.Errorf("usertype has no name")
	}
	if ut.Type == nil {
		return fmt.Errorf("usertype %s has no type", ut.Name)
	}
	if _, exists := s.names[ut.Name]; exists {
		return fmt.Errorf("usertype %s already registered", ut.Name)
	}
	if prev, exists := s.usertypes[ut.Type]; exists {
		return fmt.Errorf("type %v already registered as usertype %s", ut.Type, prev.Name)
	}

	ut.meta = "sol.usertype." + ut.Name
	l := s.l
	lua.NewMetaTable(l, ut.meta)
	functions := []lua.RegistryFunction{
		{Name: "__index", Function: func(l *lua.State) int {
			s.objectArg(l, ut)
			if l.TypeOf(2) != lua.TypeString {
				l.PushNil()
				return 1
			}
			name, _ := l.ToString(2)
			m, ok := ut.Methods[name]
			if !ok {
				l.PushNil()
				return 1
			}
			l.PushGoFunction(func(l *lua.State) int {
				self := s.objectArg(l, ut)
				return s.invoke(l, ut, name, m, self.value, s.args(l, 2))
			})
			return 1
		}},
		{Name: "__tostring", Function: func(l *lua.State) int {
			obj := s.objectArg(l, ut)
			if ut.Format != nil {
				l.PushString(ut.Format(obj.value))
			} else {
				l.PushString(fmt.Sprintf("%s: %v", ut.Name, obj.value))
			}
			return 1
		}},
	}
	if ut.Call != nil {
		functions = append(functions, lua.RegistryFunction{Name: "__call", Function: func(l *lua.State) int {
			obj := s.objectArg(l, ut)
			return s.invoke(l, ut, "__call", ut.Call, obj.value, s.args(l, 2))
		}})
	}

	iterable := ut.Type.Implements(reflect.TypeOf((*container.Iterable)(nil)).Elem())
	if ut.Len != nil || iterable {
		functions = append(functions, lua.RegistryFunction{Name: "__len", Function: func(l *lua.State) int {
			obj := s.objectArg(l, ut)
			if ut.Len != nil {
				l.PushInteger(ut.Len(obj.value))
			} else {
				l.PushInteger(obj.value.(container.Iterable).Len())
			}
			return 1
		}})
	}
	if iterable {
		functions = append(functions, lua.RegistryFunction{Name: "__pairs", Function: func(l *lua.State) int {
			obj := s.objectArg(l, ut)
			h, err := s.registry.Adapt(container.AsContainer(obj.value))
			if err != nil {
				s.raise(l, err)
			}
			return s.pushIterator(l, h.Iterate())
		}})
	}
	lua.SetFunctions(l, functions, 0)
	l.Pop(1)

	l.NewTable()
	if ut.New != nil {
		construct := func(first int) lua.Function {
			return func(l *lua.State) int {
				v, err := ut.New(s.args(l, first))
				if err != nil {
					s.raise(l, fmt.Errorf("%s.new: %w", ut.Name, err))
				}
				s.pushObject(l, v, ut)
				return 1
			}
		}
		l.PushGoFunction(construct(1))
		l.SetField(-2, "new")

		// Name(...) skips the class table passed as the first argument.
		l.NewTable()
		l.PushGoFunction(construct(2))
		l.SetField(-2, "__call")
		l.SetMetaTable(-2)
	}
	l.SetGlobal(ut.Name)

	s.usertypes[ut.Type] = ut
	s.names[ut.Name] = ut
	s.logger.DebugCat(CatUsertype, "registered usertype %s for %v", ut.Name, ut.Type)
	return nil
}
