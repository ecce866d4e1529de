//go:build !uimemdebug

package buildmode

// Debug is true when built with the uimemdebug tag.
const Debug = false
