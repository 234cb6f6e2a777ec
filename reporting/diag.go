package reporting

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ethereum-optimism/infra/op-proptest/types"
)

// Diag is the diagnostic channel case bodies print counterexample detail
// through. It starts silent; the execution loop raises it to the configured
// level only around a failure replay, so diagnostics appear exactly once
// per failing case.
type Diag struct {
	mu    sync.Mutex
	level types.DiagLevel
	out   io.Writer
}

// NewDiag creates a silent Diag writing to out. A nil out selects
// os.Stdout.
func NewDiag(out io.Writer) *Diag {
	if out == nil {
		out = os.Stdout
	}
	return &Diag{level: types.DiagNone, out: out}
}

// SetLevel changes the active level.
func (d *Diag) SetLevel(l types.DiagLevel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.level = l
}

// Level returns the active level.
func (d *Diag) Level() types.DiagLevel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.level
}

// Errorf prints failure detail when the level admits errors.
func (d *Diag) Errorf(format string, args ...any) {
	d.printf(types.DiagError, format, args...)
}

// Infof prints verbose detail when the level admits info.
func (d *Diag) Infof(format string, args ...any) {
	d.printf(types.DiagInfo, format, args...)
}

func (d *Diag) printf(min types.DiagLevel, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.level < min {
		return
	}
	fmt.Fprintf(d.out, format, args...)
}
