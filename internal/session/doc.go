// Package session owns one editing session: the ordered media list, the
// prober that annotates new files and the execution settings used to join
// them.
//
// The Controller is the single entry point collaborators call. It filters
// unsupported files, probes and inserts new ones according to the list
// policy, previews the concat command, and runs joins against a plan
// recomputed from the list at the moment of execution. It is not safe for
// concurrent use; callers serialize access (the CLI does so with a file lock).
package session
