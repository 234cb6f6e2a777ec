package types

import "runtime"

// TrapFn halts execution for a debugger. A case invokes it at the point of
// the counterexample during a trapped replay.
type TrapFn func()

// DefaultTrap breaks into the attached debugger.
func DefaultTrap() {
	runtime.Breakpoint()
}
