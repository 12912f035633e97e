// Package harness runs conformance scenarios against the rotor machine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: first_keystroke
//	description: "Pressing A at AAA lights B"
//	wiring: enigma-i          # built-in name or .cue file (relative to the scenario)
//	positions: AAA            # optional start positions
//	steps:
//	  - press: A
//	    expect: B             # lit lamp
//	  - release: A
//	  - type: HELLO
//	    expect: PCDUK         # produced output
//	  - press: a
//	    error: UNKNOWN_SYMBOL # expected error code
//	  - click: 0
//	  - set: QEV
//	assertions:
//	  - type: positions
//	    value: QEV
//	  - type: lamp_off
//	    letter: B
//	  - type: trace_count
//	    kind: press
//	    count: 6
//
// Each step holds exactly one of press, release, click, set or type.
//
// # Assertion Types
//
//   - positions: rotor letters after the last step
//   - lamp_on / lamp_off: state of one lamp after the last step
//   - state: "idle" or "key_down"
//   - output: every lit letter of the run, concatenated
//   - trace_count: number of trace events of a kind
//
// # Deterministic Testing
//
// Every scenario runs on a freshly built machine with a fresh logical clock,
// so the same scenario always produces a byte-identical trace. RunWithGolden
// compares that trace with testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
