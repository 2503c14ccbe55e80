// Package subset orchestrates the sampling pipeline: preflight, index
// parsing, seeded selection, index writing, and asset materialization, with
// the destination guarded by a lock file and each run recorded in the ledger.
//
// Dataset-level problems (missing source layout, empty index, held lock)
// abort before any output is written. Record-level problems never abort; they
// surface in the summary and, under strict mode, in the process exit status.
package subset
