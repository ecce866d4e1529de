// Package buildmode reports whether the module was built with debug checks.
//
// Debug checks are enabled with the uimemdebug build tag:
//
//	go build -tags uimemdebug ./...
package buildmode
