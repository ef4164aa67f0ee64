package harness

// Outcomes recorded in TraceEvent.Outcome.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// TraceEvent records what one case observed.
type TraceEvent struct {
	Case      string   `json:"case"`
	Outcome   string   `json:"outcome"`
	Output    string   `json:"output,omitempty"`
	Error     string   `json:"error,omitempty"`
	Consumed  int      `json:"consumed"`
	Allocs    int      `json:"allocs"`
	Frees     int      `json:"frees"`
	Grows     int      `json:"grows"`
	Destroyed []string `json:"destroyed,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case met its expectations.
	Pass bool `json:"pass"`

	// Trace holds one event per case, in case order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
