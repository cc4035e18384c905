/*
Package resources resolves font names to loaded fonts.

As resource loading may be a time-consuming task, functions in this package
work in an async/await fashion by returning a promise. Functions named

	Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

A font name is tried, in order, as an explicit file path, as a key of a
font registry, as a file in the registry's font directory and finally as the
name of a font installed on the system.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'libertinus.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.fonts")
}
