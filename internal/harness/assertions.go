package harness

import (
	"fmt"
	"slices"
)

// checkCase compares an event with the case's expectations and returns
// one message per mismatch.
func checkCase(c Case, e TraceEvent) []string {
	var errs []string
	fail := func(what string, want, got any) {
		errs = append(errs, fmt.Sprintf("%s: expected %v, got %v", what, want, got))
	}

	if c.Expect.Error != "" {
		if e.Outcome != OutcomeError {
			fail("outcome", OutcomeError, fmt.Sprintf("%s with output %s", e.Outcome, e.Output))
		} else if e.Error != c.Expect.Error {
			fail("error", quote(c.Expect.Error), quote(e.Error))
		}
	} else {
		want := c.Input
		if c.Expect.Output != nil {
			want = *c.Expect.Output
		}
		switch {
		case e.Outcome != OutcomeOK:
			fail("outcome", OutcomeOK, fmt.Sprintf("%s (%s)", e.Outcome, e.Error))
		case e.Output != want:
			fail("output", want, e.Output)
		}
	}

	if e.Allocs != e.Frees {
		errs = append(errs, fmt.Sprintf("leak: %d allocations, %d frees", e.Allocs, e.Frees))
	}
	if c.Expect.Allocs != nil && *c.Expect.Allocs != e.Allocs {
		fail("allocs", *c.Expect.Allocs, e.Allocs)
	}
	if c.Expect.Grows != nil && *c.Expect.Grows != e.Grows {
		fail("grows", *c.Expect.Grows, e.Grows)
	}
	if c.Expect.Destroyed != nil && !slices.Equal(c.Expect.Destroyed, e.Destroyed) {
		fail("destroyed", c.Expect.Destroyed, e.Destroyed)
	}
	return errs
}

func quote(s string) string { return fmt.Sprintf("%q", s) }
