package addons

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"vmasm/pkg/asm"
)

// TransformFunc is the global every addon script must define. It receives
// the whole source as a string and returns the new source.
const TransformFunc = "transform"

// LuaAddon runs a Lua script over the source text. The result is split
// again, so line numbers after a script refer to the script's output.
type LuaAddon struct {
	name   string
	script string
}

// Lua builds an addon from script source. name is used in logs and errors.
func Lua(name, script string) *LuaAddon {
	return &LuaAddon{name: name, script: script}
}

// LoadLua reads a script file and builds an addon named after the file.
func LoadLua(path string) (*LuaAddon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read addon script %s", path)
	}
	return Lua("lua:"+filepath.Base(path), string(data)), nil
}

func (a *LuaAddon) Name() string { return a.name }

// Renumbers is always true: a script returns new text.
func (a *LuaAddon) Renumbers() bool { return true }

func (a *LuaAddon) Apply(lines []asm.Line) ([]asm.Line, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(a.script); err != nil {
		return nil, errors.Wrapf(err, "%s: load", a.name)
	}
	fn := L.GetGlobal(TransformFunc)
	if fn.Type() != lua.LTFunction {
		return nil, errors.Errorf("%s: script does not define %s(src)", a.name, TransformFunc)
	}
	err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(asm.JoinLines(lines)))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", a.name, TransformFunc)
	}
	ret := L.Get(-1)
	L.Pop(1)

	out, ok := ret.(lua.LString)
	if !ok {
		return nil, errors.Errorf("%s: %s returned %s, want string", a.name, TransformFunc, ret.Type())
	}
	return asm.SplitLines(string(out)), nil
}
