// Package scripting runs the Lua difficulty curve.
package scripting

import (
	"errors"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tomz197/invaders/internal/settings"
)

// EscalateFunc is the global the script must define. It receives a table
// with the current dynamic values, the base values and the scales, and
// returns a table with any of ship_speed, bullet_speed, alien_speed and
// alien_points. Missing fields keep their current value.
const EscalateFunc = "escalate"

var errNoEscalate = errors.New("lua function " + EscalateFunc + " not found")

// Engine wraps a single gopher-lua VM. It is not safe for concurrent use;
// every game owns its own engine.
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	waves int
}

// NewEngine creates a Lua engine and loads the script at path.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoFile(path); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if vm.GetGlobal(EscalateFunc) == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("load %s: %w", path, errNoEscalate)
	}
	log.Debug("loaded lua script", zap.String("file", path))

	return &Engine{vm: vm, log: log}, nil
}

// Escalate calls the script's escalate function. It implements settings.Escalator.
func (e *Engine) Escalate(current settings.Dynamic, base settings.Base) (settings.Dynamic, error) {
	fn := e.vm.GetGlobal(EscalateFunc)
	if fn == lua.LNil {
		return current, errNoEscalate
	}
	e.waves++

	t := e.vm.NewTable()
	t.RawSetString("wave", lua.LNumber(e.waves))
	t.RawSetString("ship_speed", lua.LNumber(current.ShipSpeed))
	t.RawSetString("bullet_speed", lua.LNumber(current.BulletSpeed))
	t.RawSetString("alien_speed", lua.LNumber(current.AlienSpeed))
	t.RawSetString("alien_points", lua.LNumber(current.AlienPoints))
	t.RawSetString("speedup_scale", lua.LNumber(base.SpeedupScale))
	t.RawSetString("score_scale", lua.LNumber(base.ScoreScale))

	bt := e.vm.NewTable()
	bt.RawSetString("ship_speed", lua.LNumber(base.ShipSpeed))
	bt.RawSetString("bullet_speed", lua.LNumber(base.BulletSpeed))
	bt.RawSetString("alien_speed", lua.LNumber(base.AlienSpeed))
	bt.RawSetString("alien_points", lua.LNumber(base.AlienPoints))
	t.RawSetString("base", bt)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return current, fmt.Errorf("lua %s: %w", EscalateFunc, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return current, fmt.Errorf("lua %s returned %s, want table", EscalateFunc, result.Type())
	}

	next := current
	points := float64(current.AlienPoints)
	fields := []struct {
		key string
		dst *float64
	}{
		{"ship_speed", &next.ShipSpeed},
		{"bullet_speed", &next.BulletSpeed},
		{"alien_speed", &next.AlienSpeed},
		{"alien_points", &points},
	}
	for _, f := range fields {
		v, err := numberOr(rt, f.key, *f.dst)
		if err != nil {
			return current, err
		}
		*f.dst = v
	}
	next.AlienPoints = int(points)
	return next, nil
}

// Reset restarts the wave counter passed to the script. Called on a new game.
func (e *Engine) Reset() {
	e.waves = 0
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// numberOr reads a numeric field, keeping fallback when it is absent.
func numberOr(t *lua.LTable, key string, fallback float64) (float64, error) {
	n, ok := t.RawGetString(key).(lua.LNumber)
	if !ok {
		return fallback, nil
	}
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback, fmt.Errorf("lua %s returned %s = %v", EscalateFunc, key, v)
	}
	return v, nil
}
