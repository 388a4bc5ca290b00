// Package bridge is the seam between a foreign caller and the analysis
// engines behind it. It owns engine instances through a generation-checked
// handle table, marshals foreign record collections into owned batches with
// per-element fault isolation, and exposes the four boundary operations:
// create, destroy, analyze, decrypt.
//
// Every resource created to service one call is released before that call
// returns, on every exit path. The engine instance behind a handle is the
// only resource that spans calls, and it is released exactly once, by
// DestroyEngine.
//
// Operations on a single handle must be serialized by the caller. The bridge
// locks its handle table, never the engine call, so concurrent operations on
// distinct handles proceed in parallel while concurrent operations on one
// handle are only as safe as the engine implementation itself.
package bridge
