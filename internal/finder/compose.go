package finder

import "context"

// Batch is an ordered group of report entries sent as one message.
type Batch []string

// composeBatches walks candidates in rank order, enriching each one, and
// groups accepted entries into batches of batchSize. The walk stops once
// threshold entries are accepted or the candidates run out; a non-empty
// remainder is flushed as a final short batch. No empty batch is ever
// emitted, and entry order follows candidate rank throughout.
func composeBatches(ctx context.Context, candidates []Candidate, threshold, batchSize int, enrich func(context.Context, Candidate) (string, bool)) []Batch {
	var batches []Batch
	var current Batch

	accepted := 0
	for _, c := range candidates {
		if accepted >= threshold {
			break
		}
		entry, ok := enrich(ctx, c)
		if !ok {
			continue
		}
		current = append(current, entry)
		accepted++
		if len(current) == batchSize {
			batches = append(batches, current)
			current = nil
		}
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
