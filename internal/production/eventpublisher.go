package production

import (
	"context"

	"github.com/google/uuid"

	"github.com/comalice/fsmx/internal/primitives"
)

// ChannelPublisher forwards firing envelopes to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- primitives.Envelope
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- primitives.Envelope) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish assigns an ID to envelopes that lack one and offers it to the channel.
func (p *ChannelPublisher) Publish(ctx context.Context, env primitives.Envelope) error {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	select {
	case p.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
