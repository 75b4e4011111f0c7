package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	published []amqp091.Publishing
	keys      []string
	err       error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestAMQPPublisher_Publish(t *testing.T) {
	var logs bytes.Buffer
	ch := &fakeChannel{}
	p := &AMQPPublisher{
		channel:      ch,
		exchangeName: "debitum.events",
		logger:       slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}

	e := New(PersonDeleted, "owner-1")
	e.PersonID = "p-1"
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ch.published))
	}
	if ch.keys[0] != string(PersonDeleted) {
		t.Errorf("routing key: got %q, want %q", ch.keys[0], PersonDeleted)
	}
	if ch.published[0].ContentType != "application/json" {
		t.Errorf("content type: got %q", ch.published[0].ContentType)
	}
	if !strings.Contains(logs.String(), "Published ledger event") {
		t.Errorf("expected publish to be logged through the injected logger, got %q", logs.String())
	}
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	p := &AMQPPublisher{
		channel:      &fakeChannel{err: errors.New("channel closed")},
		exchangeName: "debitum.events",
		logger:       slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}

	if err := p.Publish(context.Background(), New(PersonCreated, "owner-1")); err == nil {
		t.Fatal("expected error from a closed channel")
	}
}
