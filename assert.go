package particle

import "github.com/davemc0/particle/perror"

// StrictAssertions makes internal-invariant violations panic instead of
// returning an InternalAssertion error. Tests enable it so an engine bug
// fails loudly at the violation site; release callers embedding the engine
// in a long-lived process leave it off and get the typed error back.
var StrictAssertions = false

// assertInternal reports a should-never-happen state: nil when cond holds,
// a panic or an InternalAssertion error otherwise, per StrictAssertions.
func assertInternal(cond bool, op, msg string) error {
	if cond {
		return nil
	}
	if StrictAssertions {
		panic("particle: " + op + ": " + msg)
	}
	return perror.New(perror.InternalAssertion, op, msg)
}
