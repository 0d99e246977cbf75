package notify

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerDeliversQueuedMessages(t *testing.T) {
	sink := NewMemory()
	worker := NewWorker(sink, slog.Default(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	msg := Message{Recipient: "admin@example.org", Subject: "s", Template: TemplateCreateByOwner}
	require.NoError(t, worker.Send(ctx, msg))

	assert.Eventually(t, func() bool {
		return len(sink.Messages()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, "admin@example.org", sink.Messages()[0].Recipient)
}

func TestWorkerDropsWhenFull(t *testing.T) {
	sink := NewMemory()
	// No Run loop: the single-slot inbox fills after one message.
	worker := NewWorker(sink, slog.Default(), 1)

	ctx := context.Background()
	require.NoError(t, worker.Send(ctx, Message{Subject: "kept"}))
	require.NoError(t, worker.Send(ctx, Message{Subject: "dropped"}))
	assert.Empty(t, sink.Messages(), "nothing delivered until Run drains")
}

func TestTemplatesRender(t *testing.T) {
	msgCtx := Context{
		Title:      "title",
		ChangedBy:  "alice",
		IsReviewed: true,
		Rows: []Row{
			{Name: "Notes", Pre: "old", Post: "new", IsChanged: true},
			{Name: "Tags", Post: []string{"earthquake"}, IsList: true},
		},
	}
	html, text, err := render(msgCtx)
	require.NoError(t, err)
	assert.Contains(t, html, "title")
	assert.Contains(t, html, "alice")
	assert.Contains(t, text, "old -> new")
}
