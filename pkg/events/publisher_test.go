package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPublisherAppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewPublisher(client)
	p.now = func() time.Time { return fixed }

	ctx := context.Background()
	err := p.Publish(ctx, AccountEventsStream, AccountCreated, AccountCreatedEvent{
		AccountID:     7,
		AccountNumber: "0123456789",
		UserID:        3,
		AccountType:   "SAVINGS",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	msgs, err := client.XRange(ctx, AccountEventsStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	raw, ok := msgs[0].Values["event"].(string)
	if !ok {
		t.Fatalf("event field missing: %#v", msgs[0].Values)
	}
	var got struct {
		Type      string              `json:"type"`
		Timestamp time.Time           `json:"timestamp"`
		Data      AccountCreatedEvent `json:"data"`
	}
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != AccountCreated {
		t.Errorf("type = %q", got.Type)
	}
	if !got.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v", got.Timestamp)
	}
	if got.Data.AccountNumber != "0123456789" || got.Data.UserID != 3 {
		t.Errorf("unexpected payload %+v", got.Data)
	}
}

func TestPublisherReportsRedisFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	p := NewPublisher(client)
	if err := p.Publish(context.Background(), UserEventsStream, UserDeleted, UserDeletedEvent{UserID: 1}); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestNopPublisher(t *testing.T) {
	var e Emitter = NopPublisher{}
	if err := e.Publish(context.Background(), UserEventsStream, UserCreated, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
