package finder

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const preamble = "These are the games you share:"

// dispatch sends the preamble followed by each batch as one message, in rank
// order, pausing between successive sends to stay inside the transport's rate
// limit. The preamble goes out even when there are no batches. A send error
// aborts the remaining sends; batches already acknowledged stay sent.
func (f *Finder) dispatch(ctx context.Context, channelID string, batches []Batch) error {
	if err := f.transport.SendMessage(ctx, channelID, preamble); err != nil {
		sendFailuresTotal.Inc()
		return fmt.Errorf("send preamble: %w", err)
	}

	for i, batch := range batches {
		if f.pacing > 0 {
			select {
			case <-time.After(f.pacing):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := f.transport.SendMessage(ctx, channelID, strings.Join(batch, "\n")); err != nil {
			sendFailuresTotal.Inc()
			return fmt.Errorf("send batch %d/%d: %w", i+1, len(batches), err)
		}
		batchSendsTotal.Inc()
	}
	return nil
}
