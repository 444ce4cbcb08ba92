package medialist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vjoin/internal/services"
)

func mustNew(t *testing.T, placeholders int, policy Policy) *List {
	t.Helper()
	l, err := New(placeholders, policy)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func entry(path string) Entry {
	return Entry{Path: path, Title: filepath.Base(path)}
}

func TestNewSeedsPlaceholders(t *testing.T) {
	l := mustNew(t, 3, PolicyPlaceholderFill)
	if l.Len() != 3 {
		t.Fatalf("expected 3 slots, got %d", l.Len())
	}
	if l.Occupied() != 0 {
		t.Fatalf("expected no occupied slots, got %d", l.Occupied())
	}
	if got := l.ResolvedOrder(); len(got) != 0 {
		t.Fatalf("expected empty resolved order, got %v", got)
	}
}

func TestNewRejectsNegativePlaceholders(t *testing.T) {
	if _, err := New(-1, PolicyPlaceholderFill); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := New(0, Policy("bogus")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestInsertFillsFirstPlaceholderThenAppends(t *testing.T) {
	l := mustNew(t, 2, PolicyPlaceholderFill)
	l.Insert(entry("/v/a.mp4"))
	l.Insert(entry("/v/b.mp4"))
	l.Insert(entry("/v/c.mp4"))

	if l.Len() != 3 {
		t.Fatalf("expected 3 slots, got %d", l.Len())
	}
	want := []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
}

func TestInsertReusesVacatedPlaceholder(t *testing.T) {
	l := mustNew(t, 3, PolicyPlaceholderFill)
	l.Insert(entry("/v/a.mp4"))
	l.Insert(entry("/v/b.mp4"))
	if err := l.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	l.Insert(entry("/v/c.mp4"))
	want := []string{"/v/c.mp4", "/v/b.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
}

func TestPlaceholderFillAllowsDuplicates(t *testing.T) {
	l := mustNew(t, 3, PolicyPlaceholderFill)
	if !l.Add(entry("/v/a.mp4")) || !l.Add(entry("/v/a.mp4")) {
		t.Fatal("expected both adds to succeed")
	}
	if got := l.ResolvedOrder(); len(got) != 2 {
		t.Fatalf("expected duplicate entries, got %v", got)
	}
}

func TestAppendDedup(t *testing.T) {
	l := mustNew(t, 0, PolicyAppendDedup)
	if !l.Add(entry("/v/a.mp4")) {
		t.Fatal("expected first add to succeed")
	}
	if l.Add(entry("/v/a.mp4")) {
		t.Fatal("expected duplicate add to be ignored")
	}
	if !l.Add(entry("/v/b.mp4")) {
		t.Fatal("expected distinct add to succeed")
	}
	want := []string{"/v/a.mp4", "/v/b.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
}

func TestResolvedOrderSkipsPlaceholders(t *testing.T) {
	l := mustNew(t, 3, PolicyPlaceholderFill)
	l.Insert(entry("/v/a.mp4"))
	l.Insert(entry("/v/b.mp4"))
	// slots: a, b, <empty>; move the placeholder to the front
	if err := l.Reorder([]int{2, 0, 1}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if !l.Slots()[0].Empty() {
		t.Fatal("expected placeholder at slot 0")
	}
	want := []string{"/v/a.mp4", "/v/b.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
}

func TestReorderAppliesPermutation(t *testing.T) {
	l := mustNew(t, 0, PolicyAppendDedup)
	for _, p := range []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"} {
		l.Add(entry(p))
	}
	if err := l.Reorder([]int{2, 0, 1}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	want := []string{"/v/c.mp4", "/v/a.mp4", "/v/b.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
}

func TestReorderRejectsInvalidPermutationAtomically(t *testing.T) {
	l := mustNew(t, 0, PolicyAppendDedup)
	for _, p := range []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"} {
		l.Add(entry(p))
	}
	before := l.ResolvedOrder()

	cases := map[string][]int{
		"short":     {0, 1},
		"long":      {0, 1, 2, 3},
		"repeated":  {0, 0, 1},
		"negative":  {-1, 0, 1},
		"too large": {0, 1, 3},
	}
	for name, perm := range cases {
		t.Run(name, func(t *testing.T) {
			err := l.Reorder(perm)
			if !errors.Is(err, ErrInvalidPermutation) {
				t.Fatalf("expected ErrInvalidPermutation, got %v", err)
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation marker, got %v", err)
			}
			if got := l.ResolvedOrder(); !reflect.DeepEqual(got, before) {
				t.Fatalf("order changed after rejected reorder: %v", got)
			}
		})
	}
}

func TestMovePreservesRelativeOrderOfOthers(t *testing.T) {
	l := mustNew(t, 0, PolicyAppendDedup)
	for _, p := range []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4", "/v/d.mp4"} {
		l.Add(entry(p))
	}
	if err := l.Move(3, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}
	want := []string{"/v/a.mp4", "/v/d.mp4", "/v/b.mp4", "/v/c.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
	if err := l.Move(0, 3); err != nil {
		t.Fatalf("Move: %v", err)
	}
	want = []string{"/v/d.mp4", "/v/b.mp4", "/v/c.mp4", "/v/a.mp4"}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved order = %v, want %v", got, want)
	}
	if err := l.Move(0, 4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestMovePermutation(t *testing.T) {
	cases := []struct {
		n, from, to int
		want        []int
	}{
		{4, 0, 0, []int{0, 1, 2, 3}},
		{4, 0, 3, []int{1, 2, 3, 0}},
		{4, 3, 0, []int{3, 0, 1, 2}},
		{4, 1, 2, []int{0, 2, 1, 3}},
	}
	for _, tc := range cases {
		if got := MovePermutation(tc.n, tc.from, tc.to); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("MovePermutation(%d, %d, %d) = %v, want %v", tc.n, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRemoveByPolicy(t *testing.T) {
	fill := mustNew(t, 2, PolicyPlaceholderFill)
	fill.Insert(entry("/v/a.mp4"))
	fill.Insert(entry("/v/b.mp4"))
	if err := fill.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fill.Len() != 2 || !fill.Slots()[0].Empty() {
		t.Fatalf("expected slot 0 to become a placeholder, slots=%d", fill.Len())
	}
	if err := fill.Remove(0); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("expected ErrEmptySlot, got %v", err)
	}

	appendOnly := mustNew(t, 0, PolicyAppendDedup)
	appendOnly.Add(entry("/v/a.mp4"))
	appendOnly.Add(entry("/v/b.mp4"))
	if err := appendOnly.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if appendOnly.Len() != 1 {
		t.Fatalf("expected slot to be dropped, have %d", appendOnly.Len())
	}
	if err := appendOnly.Remove(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestClearReleasesThumbnailsAndReseeds(t *testing.T) {
	dir := t.TempDir()
	thumbA := filepath.Join(dir, "a.jpg")
	thumbB := filepath.Join(dir, "b.jpg")
	for _, p := range []string{thumbA, thumbB} {
		if err := os.WriteFile(p, []byte("jpg"), 0o644); err != nil {
			t.Fatalf("write thumb: %v", err)
		}
	}

	l := mustNew(t, 3, PolicyPlaceholderFill)
	l.Insert(Entry{Path: "/v/a.mp4", Thumbnail: thumbA})
	l.Insert(Entry{Path: "/v/b.mp4", Thumbnail: thumbB})
	l.Insert(Entry{Path: "/v/c.mp4"})
	l.Insert(Entry{Path: "/v/d.mp4"})

	if errs := l.Clear(); len(errs) != 0 {
		t.Fatalf("unexpected release errors: %v", errs)
	}
	for _, p := range []string{thumbA, thumbB} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("expected thumbnail %s removed, stat err=%v", p, err)
		}
	}
	if l.Len() != 3 || l.Occupied() != 0 {
		t.Fatalf("expected 3 empty placeholders, got len=%d occupied=%d", l.Len(), l.Occupied())
	}
}

func TestRemoveAllCollectsReleaseErrors(t *testing.T) {
	l := mustNew(t, 0, PolicyAppendDedup)
	l.release = func(path string) error { return errors.New("busy") }
	l.Add(Entry{Path: "/v/a.mp4", Thumbnail: "/tmp/a.jpg"})
	l.Add(Entry{Path: "/v/b.mp4", Thumbnail: "/tmp/b.jpg"})
	l.Add(Entry{Path: "/v/c.mp4"})

	errs := l.RemoveAll()
	if len(errs) != 2 {
		t.Fatalf("expected 2 release errors, got %v", errs)
	}
	if l.Len() != 0 {
		t.Fatalf("expected no slots after RemoveAll, got %d", l.Len())
	}
}

func TestRemoveReleasesThumbnail(t *testing.T) {
	thumb := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(thumb, []byte("jpg"), 0o644); err != nil {
		t.Fatalf("write thumb: %v", err)
	}
	l := mustNew(t, 0, PolicyAppendDedup)
	l.Add(Entry{Path: "/v/a.mp4", Thumbnail: thumb})
	if err := l.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Fatalf("expected thumbnail removed, stat err=%v", err)
	}
}

func TestSlotsAndEntriesAreCopies(t *testing.T) {
	l := mustNew(t, 0, PolicyAppendDedup)
	l.Add(entry("/v/a.mp4"))
	slots := l.Slots()
	slots[0].Entry.Path = "/changed"
	entries := l.Entries()
	entries[0].Path = "/changed"
	if got := l.ResolvedOrder()[0]; got != "/v/a.mp4" {
		t.Fatalf("list mutated through copy: %s", got)
	}
}

func TestRestore(t *testing.T) {
	l := mustNew(t, 3, PolicyPlaceholderFill)
	a := Entry{Path: "/v/a.mp4"}
	l.Restore([]Slot{{}, {Entry: &a}})
	if l.Len() != 2 {
		t.Fatalf("expected 2 slots, got %d", l.Len())
	}
	if got := l.ResolvedOrder(); !reflect.DeepEqual(got, []string{"/v/a.mp4"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"":                 PolicyPlaceholderFill,
		"placeholder-fill": PolicyPlaceholderFill,
		" Append-Dedup ":   PolicyAppendDedup,
		"append-dedup":     PolicyAppendDedup,
	}
	for input, want := range cases {
		got, err := ParsePolicy(input)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParsePolicy(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParsePolicy("random"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
