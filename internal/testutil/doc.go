// Package testutil holds helpers shared by tests of the packages built on
// top of the machine: fresh machines from wiring sets, recorded typing and
// throwaway journals.
//
// Packages that testutil imports (machine, wiring, trace, journal) cannot use
// it from their own tests.
package testutil
