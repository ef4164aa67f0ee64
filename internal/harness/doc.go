// Package harness runs codec conformance scenarios against the codec
// model of a compiled schema.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: ../schemas/shop.cue   # relative to the scenario file
//	root: item
//	initial_capacity: 2           # optional, defaults to 8
//	cases:
//	  - name: round trip
//	    input: '{"id":1,"tags":["a"]}'
//	  - name: unknown key
//	    input: '{"x":1}'
//	    expect:
//	      error: "got invalid key 'x'"
//	      destroyed: []
//	  - name: grows
//	    input: '{"id":1,"tags":["a","b","c"]}'
//	    expect:
//	      grows: 1
//
// # Expectations
//
// A case without expect.error must decode. Its value is then encoded
// again and compared with expect.output, which defaults to the input
// text. A case with expect.error must fail with exactly that message.
//
// The optional counters (allocs, grows) and destroyed list are compared
// with the ledger of the decode. Every case also checks that the decode
// and the following destroy release every allocation.
//
// # Deterministic Testing
//
// Each scenario compiles through the pipeline into a fresh in-memory
// artifact store with a deterministic clock and sequential build IDs, so
// the trace is identical across runs for golden comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/item.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
