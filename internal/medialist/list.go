package medialist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"vjoin/internal/services"
)

var (
	// ErrInvalidPermutation reports a reorder request that is not a permutation of the slot indices.
	ErrInvalidPermutation = fmt.Errorf("%w: invalid permutation", services.ErrValidation)
	// ErrIndexOutOfRange reports a slot index outside the list.
	ErrIndexOutOfRange = fmt.Errorf("%w: slot index out of range", services.ErrValidation)
	// ErrEmptySlot reports an operation that requires an occupied slot.
	ErrEmptySlot = fmt.Errorf("%w: slot is empty", services.ErrValidation)
)

// Entry is a media file tracked by the list.
type Entry struct {
	Path            string
	Title           string
	DurationSeconds float64
	Codec           string
	// Thumbnail is a temp image owned by the entry; empty when none was extracted.
	Thumbnail string
}

// Slot is a list position. A nil Entry marks an empty placeholder.
type Slot struct {
	Entry *Entry
}

// Empty reports whether the slot is a placeholder.
func (s Slot) Empty() bool {
	return s.Entry == nil
}

// List is an ordered sequence of slots. It is not safe for concurrent use.
type List struct {
	slots        []Slot
	placeholders int
	policy       Policy
	release      func(string) error
}

// New creates a list seeded with the given number of empty placeholders.
func New(placeholders int, policy Policy) (*List, error) {
	if placeholders < 0 {
		return nil, fmt.Errorf("%w: negative placeholder count %d", services.ErrValidation, placeholders)
	}
	parsed, err := ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}
	l := &List{
		placeholders: placeholders,
		policy:       parsed,
		release:      removeTempFile,
	}
	l.seed()
	return l, nil
}

// Restore replaces the current slots with previously persisted ones without
// releasing anything. Entries are copied.
func (l *List) Restore(slots []Slot) {
	l.slots = cloneSlots(slots)
}

// Policy returns the insertion policy in effect.
func (l *List) Policy() Policy {
	return l.policy
}

// Placeholders returns the number of placeholders seeded on clear.
func (l *List) Placeholders() int {
	return l.placeholders
}

// Len returns the number of slots, placeholders included.
func (l *List) Len() int {
	return len(l.slots)
}

// Occupied returns the number of slots holding an entry.
func (l *List) Occupied() int {
	count := 0
	for _, slot := range l.slots {
		if !slot.Empty() {
			count++
		}
	}
	return count
}

// Contains reports whether path is held by an occupied slot.
func (l *List) Contains(path string) bool {
	for _, slot := range l.slots {
		if !slot.Empty() && slot.Entry.Path == path {
			return true
		}
	}
	return false
}

// Add places entry according to the list policy and reports whether it was added.
func (l *List) Add(entry Entry) bool {
	if l.policy == PolicyAppendDedup {
		return l.Append(entry)
	}
	l.Insert(entry)
	return true
}

// Append adds entry at the end unless its path is already listed.
func (l *List) Append(entry Entry) bool {
	if l.Contains(entry.Path) {
		return false
	}
	e := entry
	l.slots = append(l.slots, Slot{Entry: &e})
	return true
}

// Insert fills the first empty placeholder, appending a new slot when none is left.
func (l *List) Insert(entry Entry) {
	e := entry
	for i := range l.slots {
		if l.slots[i].Empty() {
			l.slots[i].Entry = &e
			return
		}
	}
	l.slots = append(l.slots, Slot{Entry: &e})
}

// ResolvedOrder returns the paths of the occupied slots in slot order.
func (l *List) ResolvedOrder() []string {
	order := make([]string, 0, len(l.slots))
	for _, slot := range l.slots {
		if !slot.Empty() {
			order = append(order, slot.Entry.Path)
		}
	}
	return order
}

// Entries returns copies of the occupied entries in slot order.
func (l *List) Entries() []Entry {
	entries := make([]Entry, 0, len(l.slots))
	for _, slot := range l.slots {
		if !slot.Empty() {
			entries = append(entries, *slot.Entry)
		}
	}
	return entries
}

// Slots returns a copy of every slot, placeholders included.
func (l *List) Slots() []Slot {
	return cloneSlots(l.slots)
}

// Reorder applies perm, where perm[i] is the current index of the slot that
// moves to position i. The permutation is validated before anything changes.
func (l *List) Reorder(perm []int) error {
	if len(perm) != len(l.slots) {
		return fmt.Errorf("%w: got %d indices for %d slots", ErrInvalidPermutation, len(perm), len(l.slots))
	}
	seen := make([]bool, len(l.slots))
	for _, idx := range perm {
		if idx < 0 || idx >= len(l.slots) {
			return fmt.Errorf("%w: index %d out of range", ErrInvalidPermutation, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d repeated", ErrInvalidPermutation, idx)
		}
		seen[idx] = true
	}
	reordered := make([]Slot, len(l.slots))
	for i, idx := range perm {
		reordered[i] = l.slots[idx]
	}
	l.slots = reordered
	return nil
}

// Move relocates the slot at from to position to, shifting the slots between.
func (l *List) Move(from, to int) error {
	if err := l.checkIndex(from); err != nil {
		return err
	}
	if err := l.checkIndex(to); err != nil {
		return err
	}
	return l.Reorder(MovePermutation(len(l.slots), from, to))
}

// MovePermutation returns the permutation that moves index from to index to
// in a list of n slots.
func MovePermutation(n, from, to int) []int {
	rest := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != from {
			rest = append(rest, i)
		}
	}
	perm := make([]int, 0, n)
	perm = append(perm, rest[:to]...)
	perm = append(perm, from)
	perm = append(perm, rest[to:]...)
	return perm
}

// Remove discards the entry at index and releases its thumbnail. Under
// PolicyPlaceholderFill the slot is kept as an empty placeholder; under
// PolicyAppendDedup the slot is dropped.
func (l *List) Remove(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	slot := l.slots[index]
	if slot.Empty() {
		return fmt.Errorf("%w: slot %d", ErrEmptySlot, index)
	}
	releaseErr := l.releaseEntry(slot.Entry)
	if l.policy == PolicyPlaceholderFill {
		l.slots[index].Entry = nil
	} else {
		l.slots = append(l.slots[:index], l.slots[index+1:]...)
	}
	return releaseErr
}

// Clear discards every entry, releasing owned thumbnails, then re-seeds the
// configured placeholders. Release failures are returned but do not stop the clear.
func (l *List) Clear() []error {
	errs := l.RemoveAll()
	l.seed()
	return errs
}

// RemoveAll discards every slot and releases owned thumbnails. It is the
// terminal operation used on shutdown.
func (l *List) RemoveAll() []error {
	var errs []error
	for _, slot := range l.slots {
		if slot.Empty() {
			continue
		}
		if err := l.releaseEntry(slot.Entry); err != nil {
			errs = append(errs, err)
		}
	}
	l.slots = nil
	return errs
}

// Describe renders the resolved order as a single line for logs.
func (l *List) Describe() string {
	return strings.Join(l.ResolvedOrder(), " | ")
}

func (l *List) seed() {
	l.slots = make([]Slot, l.placeholders)
}

func (l *List) checkIndex(index int) error {
	if index < 0 || index >= len(l.slots) {
		return fmt.Errorf("%w: %d (have %d slots)", ErrIndexOutOfRange, index, len(l.slots))
	}
	return nil
}

func (l *List) releaseEntry(entry *Entry) error {
	if entry == nil || entry.Thumbnail == "" {
		return nil
	}
	if err := l.release(entry.Thumbnail); err != nil {
		return fmt.Errorf("release thumbnail for %s: %w", entry.Path, err)
	}
	return nil
}

func removeTempFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func cloneSlots(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	for i, slot := range slots {
		if slot.Empty() {
			continue
		}
		e := *slot.Entry
		out[i].Entry = &e
	}
	return out
}
