// Package medialist holds the ordered, mutable list of media entries that a
// join is planned from.
//
// The list is a sequence of slots. A slot either carries an Entry or is an
// empty placeholder reserved as an insertion target. Planning only ever sees
// ResolvedOrder: the occupied slots in slot order with placeholders skipped.
//
// Two insertion policies are supported. PolicyPlaceholderFill fills the first
// empty placeholder and allows duplicate paths; PolicyAppendDedup appends at
// the end and ignores paths already present.
//
// Entries own the thumbnail temp files they were created with. Removing an
// entry, clearing the list, or RemoveAll deletes those files.
package medialist
