package finder

import (
	"context"
	"fmt"
	"testing"
)

func candidateRange(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{AppID: int64(i + 1), Owners: []int64{1}}
	}
	return out
}

func acceptAll(_ context.Context, c Candidate) (string, bool) {
	return fmt.Sprintf("app-%d", c.AppID), true
}

func TestComposeBatchesShape(t *testing.T) {
	ctx := context.Background()

	// 7 accepted entries with batch size 3: two full batches and a remainder
	// of one.
	batches := composeBatches(ctx, candidateRange(7), 10, 3, acceptAll)
	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
	if len(batches[0]) != 3 || len(batches[1]) != 3 || len(batches[2]) != 1 {
		t.Fatalf("batch sizes = %d,%d,%d, want 3,3,1", len(batches[0]), len(batches[1]), len(batches[2]))
	}

	// Entries stay in rank order within and across batches.
	want := 1
	for _, b := range batches {
		for _, entry := range b {
			if entry != fmt.Sprintf("app-%d", want) {
				t.Fatalf("entry = %q, want app-%d", entry, want)
			}
			want++
		}
	}
}

func TestComposeBatchesExactMultiple(t *testing.T) {
	batches := composeBatches(context.Background(), candidateRange(6), 10, 3, acceptAll)
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2 with no trailing empty batch", len(batches))
	}
}

func TestComposeBatchesThreshold(t *testing.T) {
	batches := composeBatches(context.Background(), candidateRange(20), 4, 3, acceptAll)
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total != 4 {
		t.Fatalf("entries = %d, want threshold 4", total)
	}
	if len(batches) != 2 || len(batches[1]) != 1 {
		t.Fatalf("expected threshold hit mid-group to flush a short final batch, got %v", batches)
	}
}

func TestComposeBatchesSkipsDoNotCount(t *testing.T) {
	evenOnly := func(_ context.Context, c Candidate) (string, bool) {
		if c.AppID%2 != 0 {
			return "", false
		}
		return fmt.Sprintf("app-%d", c.AppID), true
	}
	batches := composeBatches(context.Background(), candidateRange(10), 3, 3, evenOnly)
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("batches = %v, want one full batch", batches)
	}
	if batches[0][0] != "app-2" || batches[0][2] != "app-6" {
		t.Fatalf("batch = %v, want accepted evens in order", batches[0])
	}
}

func TestComposeBatchesNoCandidates(t *testing.T) {
	if batches := composeBatches(context.Background(), nil, 5, 3, acceptAll); len(batches) != 0 {
		t.Fatalf("batches = %v, want none", batches)
	}
}

func TestComposeBatchesAllSkipped(t *testing.T) {
	none := func(context.Context, Candidate) (string, bool) { return "", false }
	if batches := composeBatches(context.Background(), candidateRange(9), 5, 3, none); len(batches) != 0 {
		t.Fatalf("batches = %v, want none when every candidate skips", batches)
	}
}
