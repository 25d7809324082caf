package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// CritFunction is the Lua global a critical-hit script must define:
//
//	function is_critical(face, sides) return face >= sides - 1 end
const CritFunction = "is_critical"

// CritScript is a critical-hit rule loaded from a Lua file.
//
// Calls are serialized by a mutex because an LState is single-threaded. Each
// call gets a fresh instruction budget.
type CritScript struct {
	mu        sync.Mutex
	L         *lua.LState
	fn        *lua.LFunction
	cancel    func()
	path      string
	instLimit int
	fallback  func(face, sides int) bool
	logger    *zap.Logger
}

// LoadCritPredicate runs the script at path in a sandboxed state and binds
// its is_critical function. fallback answers whenever a call fails; it is
// normally the configured threshold rule.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit. A nil
// fallback uses the natural-maximum rule. A nil logger is replaced with a
// no-op logger.
// Postcondition: Returns an error if the file cannot be loaded, or one
// wrapping rules.ErrValidation if it does not define is_critical.
func LoadCritPredicate(path string, instLimit int, fallback func(face, sides int) bool, logger *zap.Logger) (*CritScript, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = naturalMax
	}
	L, cancel := NewSandboxedState(instLimit)
	RegisterModules(L, path, logger)
	if err := L.DoFile(path); err != nil {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	fn, ok := L.GetGlobal(CritFunction).(*lua.LFunction)
	if !ok {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: %q does not define function %s: %w", path, CritFunction, rules.ErrValidation)
	}
	return &CritScript{
		L:         L,
		fn:        fn,
		cancel:    cancel,
		path:      path,
		instLimit: instLimit,
		fallback:  fallback,
		logger:    logger,
	}, nil
}

func naturalMax(face, sides int) bool { return face == sides }

// IsCritical calls is_critical(face, sides). Runtime errors, exhausted
// budgets and non-boolean results are logged at warn level and answered by
// the fallback predicate.
func (s *CritScript) IsCritical(face, sides int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	cancel := resetBudget(s.L, s.instLimit)
	s.cancel = cancel

	if err := s.L.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(face), lua.LNumber(sides)); err != nil {
		s.logger.Warn("scripting: Lua runtime error",
			zap.String("script", s.path),
			zap.String("hook", CritFunction),
			zap.Error(err),
		)
		return s.fallback(face, sides)
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	b, ok := ret.(lua.LBool)
	if !ok {
		s.logger.Warn("scripting: non-boolean result",
			zap.String("script", s.path),
			zap.String("hook", CritFunction),
			zap.String("type", ret.Type().String()),
		)
		return s.fallback(face, sides)
	}
	return bool(b)
}

// Predicate returns IsCritical as a plain function value, assignable to
// combat.CritPredicate.
func (s *CritScript) Predicate() func(face, sides int) bool {
	return s.IsCritical
}

// Close releases the Lua state. The script must not be used afterwards.
func (s *CritScript) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.L.Close()
}
