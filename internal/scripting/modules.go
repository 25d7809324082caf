package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua tables into L. engine.log.debug,
// engine.log.info and engine.log.warn forward a message to logger, tagged with
// the script name.
//
// Precondition: L must be from NewSandboxedState; logger must be non-nil.
// Postcondition: engine global is defined in L.
func RegisterModules(L *lua.LState, script string, logger *zap.Logger) {
	engine := L.NewTable()
	log := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
	} {
		L.SetField(log, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("script", script))
			return 0
		}))
	}
	L.SetField(engine, "log", log)
	L.SetGlobal("engine", engine)
}
