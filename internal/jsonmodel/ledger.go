package jsonmodel

// Ledger counts the heap traffic of a decode the way an allocation-
// counting allocator would observe the generated C code.
type Ledger struct {
	Allocs int // malloc calls that succeeded
	Frees  int // free calls on non-NULL pointers
	Grows  int // realloc calls made by array capacity doubling

	// Destroyed lists, in call order, the qualified names passed to
	// destructors invoked by parsers: duplicate-key releases and
	// cleanup after a failure.
	Destroyed []string
}

// Live returns the number of allocations not yet released.
func (l *Ledger) Live() int {
	if l == nil {
		return 0
	}
	return l.Allocs - l.Frees
}

// Reset clears all counters.
func (l *Ledger) Reset() {
	if l == nil {
		return
	}
	*l = Ledger{}
}

func (l *Ledger) alloc() {
	if l != nil {
		l.Allocs++
	}
}

func (l *Ledger) free() {
	if l != nil {
		l.Frees++
	}
}

func (l *Ledger) grow() {
	if l != nil {
		l.Grows++
	}
}

func (l *Ledger) destroyed(path string) {
	if l != nil {
		l.Destroyed = append(l.Destroyed, path)
	}
}
