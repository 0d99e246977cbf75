package notify

import (
	"context"
	"log/slog"
)

// Worker decouples mail delivery from request handling: mutations enqueue and
// move on, the worker drains the inbox in the background. A full inbox drops
// the message rather than stalling a write.
type Worker struct {
	sender Notifier
	logger *slog.Logger
	inbox  chan Message
}

func NewWorker(sender Notifier, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Worker{
		sender: sender,
		logger: logger,
		inbox:  make(chan Message, buffer),
	}
}

// Send enqueues without blocking. Implements Notifier so services cannot tell
// sync and async delivery apart.
func (w *Worker) Send(ctx context.Context, msg Message) error {
	select {
	case w.inbox <- msg:
	default:
		w.logger.WarnContext(ctx, "notification inbox full, dropping message",
			"recipient", msg.Recipient,
			"template", msg.Template,
		)
	}
	return nil
}

// Run drains the inbox until the context ends. Delivery failures are logged
// and swallowed; notification must never surface into the triggering write.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-w.inbox:
			if err := w.sender.Send(ctx, msg); err != nil {
				w.logger.ErrorContext(ctx, "notification delivery failed",
					"recipient", msg.Recipient,
					"template", msg.Template,
					"error", err,
				)
			}
		}
	}
}
