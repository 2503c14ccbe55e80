// Package materialize places selected audio assets into the output dataset.
//
// Each record resolves independently through an explicit strategy: missing
// sources and unrecoverable transfer errors become tagged results, never
// errors that abort the batch. The default placement is a hardlink with a
// timestamp-preserving copy fallback for cross-device destinations; copy-only
// mode skips the link attempt entirely. An existing destination file is an
// idempotent no-op.
package materialize
