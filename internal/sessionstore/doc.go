// Package sessionstore persists the CLI's slot list between invocations in a
// small SQLite database under the state directory.
//
// Each vjoin command loads the list, applies one operation and saves it
// back. An exclusive file lock held from Open to Close keeps concurrent
// invocations from interleaving those read-modify-write cycles. The schema is
// versioned; a mismatched database is rejected rather than migrated.
package sessionstore
