// Package trace records what happens to a machine as an ordered list of events.
//
// A Recorder observes a machine.Machine and turns every notification into an
// Event stamped by a logical Clock. The resulting trace can be serialized as
// canonical JSON, fingerprinted, persisted through a Sink and replayed on a
// fresh machine to check that the run is deterministic.
//
// Ordering is by Seq only. Wall-clock time never appears in a trace, so two
// runs of the same keystrokes produce byte-identical output.
package trace
