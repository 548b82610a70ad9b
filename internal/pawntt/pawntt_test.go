package pawntt

import "testing"

func TestProbeMissOnEmptyTable(t *testing.T) {
	table := New(1)
	if _, _, found := table.Probe(123); found {
		t.Errorf("expected a miss on an empty table")
	}
}

func TestPutThenProbeHits(t *testing.T) {
	table := New(1)
	table.Put(123, 17, -5)

	mid, end, found := table.Probe(123)
	if !found {
		t.Fatalf("expected a hit after Put")
	}
	if mid != 17 || end != -5 {
		t.Errorf("Probe returned (%d, %d), want (17, -5)", mid, end)
	}
}

func TestProbeDoesNotMatchDifferentKeyAtSameSlot(t *testing.T) {
	table := New(1)
	mask := table.mask
	keyA := mask + 1
	keyB := keyA + (mask + 1)

	table.Put(keyA, 1, 1)
	if _, _, found := table.Probe(keyB); found {
		t.Errorf("expected a miss for a different key colliding on the same slot")
	}
}

func TestGetEntryReflectsStoredValues(t *testing.T) {
	table := New(1)
	table.Put(55, 3, 4)

	e := table.GetEntry(55)
	if e.Key != 55 || e.MidValue != 3 || e.EndValue != 4 {
		t.Errorf("GetEntry returned %+v, want key 55, mid 3, end 4", e)
	}
}

func TestClearEmptiesTable(t *testing.T) {
	table := New(1)
	table.Put(1, 1, 1)
	table.Put(2, 2, 2)

	table.Clear()

	if _, _, found := table.Probe(1); found {
		t.Errorf("expected key 1 to be gone after Clear")
	}
	if _, _, found := table.Probe(2); found {
		t.Errorf("expected key 2 to be gone after Clear")
	}
}
