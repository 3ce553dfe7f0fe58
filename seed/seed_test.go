package seed

import "testing"

func TestEntries_DeepCopies(t *testing.T) {
	a := Entries()
	b := Entries()
	a[0].Title = "mutated"
	a[0].Tags[0] = "mutated"
	if b[0].Title == "mutated" || b[0].Tags[0] == "mutated" {
		t.Fatal("Entries() shares state between calls")
	}
}

func TestEntries_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Entries() {
		if e.ID == "" {
			t.Fatal("built-in entry with empty id")
		}
		if seen[e.ID] {
			t.Fatalf("duplicate built-in id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestIsBuiltin(t *testing.T) {
	if !IsBuiltin("1") {
		t.Error("id 1 should be built-in")
	}
	if IsBuiltin("no-such-id") {
		t.Error("unknown id reported as built-in")
	}
	if Count() < 13 {
		t.Errorf("expected at least 13 built-in entries, got %d", Count())
	}
}
