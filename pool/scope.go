// Package pool provides the pooled-buffer arena used by the deserialization
// path: a scope rents byte slices for the duration of one convert-to-envelope
// call and returns them all on exit.
package pool

import "sync"

// global is the process-wide buffer pool. Buffers are sized on demand;
// New always returns a zero-length slice so callers control capacity via
// append or explicit resize.
var global = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 4096)
		return &buf
	},
}

// Scope is a disposable arena owning every buffer rented through it.
// A Scope must not be used from more than one goroutine, and no slice it
// hands out may be retained past Close.
type Scope struct {
	clean  bool
	rented []*[]byte
}

// NewScope opens a pooled scope. clean mirrors the clean-rented-buffers
// configuration flag (default true): when set, every rented buffer is
// zeroed before it's returned to the global pool.
func NewScope(clean bool) *Scope {
	return &Scope{clean: clean}
}

// Rent returns a byte slice with length n and capacity at least n. The
// slice is valid until the scope is closed; callers must not retain it
// beyond that point.
func (s *Scope) Rent(n int) []byte {
	bp := global.Get().(*[]byte)
	buf := *bp
	if cap(buf) < n {
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
	}
	*bp = buf
	s.rented = append(s.rented, bp)
	return buf
}

// Close returns every buffer rented through this scope to the global pool.
// It never fails: allocation failure during rent is treated as fatal, not
// a recoverable error, per the pooled-buffer scope contract.
func (s *Scope) Close() {
	for _, bp := range s.rented {
		if s.clean {
			buf := *bp
			for i := range buf {
				buf[i] = 0
			}
		}
		global.Put(bp)
	}
	s.rented = nil
}
