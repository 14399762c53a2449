// Package harness runs verifier conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: swapped_dominance
//	description: "Entry block uses a value defined in its successor"
//	input: inputs/swapped.yaml   # relative to the scenario file
//	recursive: true              # default
//	expect:
//	  pass: false
//	  count: 1
//	  diagnostics:
//	    - code: V401
//	      severity: error
//	      contains: "does not dominate"
//	      notes: ["op in the same region"]
//
// A scenario may instead expect the input to be rejected by the loader:
//
//	expect:
//	  load_error: L004
//
// # Determinism
//
// Each Run records the verification into an in-memory store with
// sequential run ids and reads the diagnostics back from it, so the
// snapshot compared against testdata/golden/<name>.golden is the persisted
// form. Snapshots are canonical JSON.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
package harness
