package prediction

import (
	"math/rand"
	"testing"
)

func caseIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('A' + i))
	}
	return ids
}

func TestSplitCasesDisjointAndComplete(t *testing.T) {
	ids := caseIDs(10)
	train, test := SplitCases(ids, 0.2, rand.New(rand.NewSource(42)))

	if len(train) != 8 || len(test) != 2 {
		t.Fatalf("split sizes = %d/%d, want 8/2", len(train), len(test))
	}

	seen := make(map[string]int)
	for _, id := range train {
		seen[id]++
	}
	for _, id := range test {
		seen[id]++
	}
	if len(seen) != 10 {
		t.Errorf("expected all 10 cases covered, got %d", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("case %s appears %d times across the split", id, n)
		}
	}
}

func TestSplitCasesIndependentOfInputOrder(t *testing.T) {
	ids := caseIDs(8)
	reversed := make([]string, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}

	train1, test1 := SplitCases(ids, 0.25, rand.New(rand.NewSource(7)))
	train2, test2 := SplitCases(reversed, 0.25, rand.New(rand.NewSource(7)))

	if len(train1) != len(train2) || len(test1) != len(test2) {
		t.Fatalf("split sizes differ: %d/%d vs %d/%d", len(train1), len(test1), len(train2), len(test2))
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Errorf("train[%d] = %s vs %s", i, train1[i], train2[i])
		}
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Errorf("test[%d] = %s vs %s", i, test1[i], test2[i])
		}
	}
}

func TestSplitCasesMinimumSizes(t *testing.T) {
	train, test := SplitCases([]string{"A", "B"}, 0.2, rand.New(rand.NewSource(1)))
	if len(train) != 1 || len(test) != 1 {
		t.Errorf("2-case split = %d/%d, want 1/1", len(train), len(test))
	}

	train, test = SplitCases([]string{"A"}, 0.2, rand.New(rand.NewSource(1)))
	if train != nil || test != nil {
		t.Errorf("single case should not split, got %v/%v", train, test)
	}

	// Extreme fraction still leaves one case on the training side.
	train, test = SplitCases(caseIDs(4), 0.99, rand.New(rand.NewSource(1)))
	if len(train) != 1 || len(test) != 3 {
		t.Errorf("capped split = %d/%d, want 1/3", len(train), len(test))
	}
}

func TestSplitCasesDoesNotMutateInput(t *testing.T) {
	ids := []string{"D", "B", "C", "A"}
	SplitCases(ids, 0.5, rand.New(rand.NewSource(3)))
	if ids[0] != "D" || ids[1] != "B" || ids[2] != "C" || ids[3] != "A" {
		t.Errorf("input reordered: %v", ids)
	}
}
