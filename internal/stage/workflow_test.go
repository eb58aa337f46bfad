package stage

import "testing"

func TestDedupePreservesOrder(t *testing.T) {
	got := dedupe([]string{"b", "a", "b", "", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBatchSplitsIntoChunks(t *testing.T) {
	got := batch([]string{"a", "b", "c", "d", "e"}, 2)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if len(got) != len(want) {
		t.Fatalf("got %d batches, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("batch %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBatchDefaultsSizeToOne(t *testing.T) {
	got := batch([]string{"a", "b"}, 0)
	if len(got) != 2 {
		t.Fatalf("got %d batches, want 2", len(got))
	}
}
