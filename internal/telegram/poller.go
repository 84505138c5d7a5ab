package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const pollRetryDelay = 3 * time.Second

// UpdateHandler processes one inbound update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *Update)
}

// Poller drives GetUpdates in a long-poll loop and feeds each update to the
// handler. It is the transport used when the bot runs without a webhook.
type Poller struct {
	client  *Client
	handler UpdateHandler
	timeout time.Duration
	logger  *zap.Logger
}

func NewPoller(client *Client, handler UpdateHandler, timeout time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		client:  client,
		handler: handler,
		timeout: timeout,
		logger:  logger,
	}
}

// Run polls until ctx is cancelled. Updates queued before startup are
// skipped so the bot never replays an old backlog.
func (p *Poller) Run(ctx context.Context) {
	offset := p.skipPending(ctx)
	p.logger.Info("Polling for updates", zap.Int64("offset", offset))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped")
			return
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("Poller stopped")
				return
			}
			p.logger.Error("Failed to fetch updates", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for i := range updates {
			update := &updates[i]
			offset = update.UpdateID + 1
			p.handler.HandleUpdate(ctx, update)
		}
	}
}

// skipPending asks for the newest pending update and returns the offset just
// past it, discarding everything queued while the bot was down.
func (p *Poller) skipPending(ctx context.Context) int64 {
	updates, err := p.client.GetUpdates(ctx, -1, 0)
	if err != nil {
		p.logger.Warn("Failed to skip pending updates", zap.Error(err))
		return 0
	}
	if len(updates) == 0 {
		return 0
	}
	return updates[len(updates)-1].UpdateID + 1
}
