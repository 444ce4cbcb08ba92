package sessionstore

import "vjoin/internal/medialist"

// SnapshotOf captures the list for persistence.
func SnapshotOf(list *medialist.List) Snapshot {
	slots := list.Slots()
	snapshot := Snapshot{
		Policy:       string(list.Policy()),
		Placeholders: list.Placeholders(),
		Slots:        make([]Slot, len(slots)),
	}
	for i, slot := range slots {
		if slot.Empty() {
			continue
		}
		snapshot.Slots[i] = Slot{
			Path:            slot.Entry.Path,
			Title:           slot.Entry.Title,
			DurationSeconds: slot.Entry.DurationSeconds,
			Codec:           slot.Entry.Codec,
			Thumbnail:       slot.Entry.Thumbnail,
		}
	}
	return snapshot
}

// MediaSlots converts the persisted slots back into list slots.
func (s Snapshot) MediaSlots() []medialist.Slot {
	out := make([]medialist.Slot, len(s.Slots))
	for i, slot := range s.Slots {
		if slot.Path == "" {
			continue
		}
		out[i].Entry = &medialist.Entry{
			Path:            slot.Path,
			Title:           slot.Title,
			DurationSeconds: slot.DurationSeconds,
			Codec:           slot.Codec,
			Thumbnail:       slot.Thumbnail,
		}
	}
	return out
}
