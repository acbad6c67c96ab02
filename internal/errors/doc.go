// Package errors provides coded diagnostics for reactor.
//
// Every diagnostic the runtime can emit has a stable code (e.g. "R101") that
// maps to a category, a short message and a longer explanation. Runtime
// invariant violations in the render path are not faults: they are logged as
// warnings through Warn and execution continues best-effort.
//
// # Usage
//
//	err := errors.New("R102").WithDetail("computed fullName has no setter")
//	fmt.Println(err.Format())
//
//	errors.Warn(logger, "R104", "key", "title")
package errors
