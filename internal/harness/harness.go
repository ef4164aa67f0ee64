package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/compiler"
	"github.com/roach88/cjsongen/internal/jsonmodel"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/pipeline"
	"github.com/roach88/cjsongen/internal/store"
	"github.com/roach88/cjsongen/internal/testutil"
)

// Harness is the scenario execution engine for one compiled root.
type Harness struct {
	codec  *jsonmodel.Codec
	root   node.ID
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario compiles into a fresh in-memory store for isolation.
//
// Execution flow:
// 1. Compile the schema file through the pipeline
// 2. Select the root struct
// 3. Run every case through the codec model
// 4. Return result with pass/fail, trace, and errors
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:",
		store.WithClock(testutil.NewDeterministicClock()),
		store.WithIDGenerator(&testutil.SequentialBuildIDs{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	opts := cgen.DefaultOptions()
	if scenario.InitialCapacity > 0 {
		opts.InitialCapacity = scenario.InitialCapacity
	}
	p, err := pipeline.New(opts, pipeline.WithStore(st), pipeline.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	defs, err := compiler.CompileFile(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	results, err := p.CompileAll(context.Background(), scenario.Schema, defs)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var root *pipeline.Result
	for i := range results {
		if results[i].Name == scenario.Root {
			root = &results[i]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("schema %s has no struct %q", scenario.Schema, scenario.Root)
	}

	h := &Harness{
		codec:  jsonmodel.New(root.Index, opts),
		root:   root.Index.Root().Key,
		logger: logger,
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		event, err := h.executeCase(c)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		result.Trace = append(result.Trace, event)
		for _, msg := range checkCase(c, event) {
			result.AddError(fmt.Sprintf("case %q: %s", c.Name, msg))
		}
	}
	return result, nil
}

// executeCase decodes the input, re-encodes a successful value and
// destroys it, recording the ledger. Errors are returned only for faults
// of the model itself; bad input is an event outcome.
func (h *Harness) executeCase(c Case) (TraceEvent, error) {
	var l jsonmodel.Ledger
	event := TraceEvent{Case: c.Name}

	v, consumed, err := h.codec.Decode(h.root, c.Input, &l)
	event.Consumed = consumed

	var de *jsonmodel.DecodeError
	switch {
	case errors.As(err, &de):
		event.Outcome = OutcomeError
		event.Error = de.Message
	case err != nil:
		return TraceEvent{}, err
	default:
		event.Outcome = OutcomeOK
		if event.Output, err = h.codec.Encode(h.root, v); err != nil {
			return TraceEvent{}, err
		}
		if err := h.codec.Destroy(h.root, v, &l); err != nil {
			return TraceEvent{}, err
		}
	}

	event.Allocs, event.Frees, event.Grows = l.Allocs, l.Frees, l.Grows
	event.Destroyed = l.Destroyed

	h.logger.Debug("case executed",
		"case", c.Name,
		"outcome", event.Outcome,
		"allocs", l.Allocs,
	)
	return event, nil
}
