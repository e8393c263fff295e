package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/behavior"
)

// DefaultFunction is the Lua entry point used when an NPC definition
// does not name one.
const DefaultFunction = "npc_behavior"

// Engine wraps a single gopher-lua VM for scripted NPC behavior.
// Go owns collision checks and command execution; Lua owns the
// decision logic. Single-goroutine access only (simulation tick).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the
// given directory. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "behavior")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load behavior scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// RunBehavior calls the named Lua function (DefaultFunction when fn
// is empty) with the NPC context table and returns the command list.
// Any script failure returns nil — the NPC stands still this tick.
func (e *Engine) RunBehavior(fn string, ctx behavior.ScriptContext) []behavior.ScriptCommand {
	if fn == "" {
		fn = DefaultFunction
	}
	luaFn := e.vm.GetGlobal(fn)
	if luaFn == lua.LNil {
		e.log.Warn("lua behavior function not found", zap.String("fn", fn), zap.String("npc", ctx.ID))
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LString(ctx.ID))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("dir", lua.LString(ctx.Dir))
	t.RawSetString("state", lua.LString(ctx.State))
	if ctx.Waiting {
		t.RawSetString("waiting", lua.LTrue)
	} else {
		t.RawSetString("waiting", lua.LFalse)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua behavior error", zap.Error(err), zap.String("npc", ctx.ID))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []behavior.ScriptCommand
	rt.ForEach(func(_, v lua.LValue) {
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		cmd := behavior.ScriptCommand{
			Type:  lua.LVAsString(row.RawGetString("type")),
			Dir:   lua.LVAsString(row.RawGetString("dir")),
			Event: lua.LVAsString(row.RawGetString("event")),
			Ms:    int64(lua.LVAsNumber(row.RawGetString("ms"))),
		}
		cmds = append(cmds, cmd)
	})
	return cmds
}
