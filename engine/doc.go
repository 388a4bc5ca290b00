// Package engine defines the contract between the OCR bridge and the
// analysis engines it drives. The interfaces are intentionally small and
// implementation-agnostic so engines can be backed by pure Go code, native
// libraries, or remote services without leaking provider-specific concerns
// into the bridge.
package engine
