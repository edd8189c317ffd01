package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/eventhub/storefront/internal/core/domain"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func newTestPublisher(w *captureWriter) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		now:    func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestKafkaPublisher_OrderPlaced(t *testing.T) {
	w := &captureWriter{}
	p := newTestPublisher(w)

	err := p.OrderPlaced(context.Background(), domain.Order{
		ID:         "o-1",
		IdentityID: "u1",
		Items:      []domain.CartLine{{ID: "1"}, {ID: "2"}},
		TotalCost:  2000,
		Status:     domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("OrderPlaced returned error: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "u1" {
		t.Fatalf("expected key u1, got %q", w.msgs[0].Key)
	}

	var ev OrderEvent
	if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != TypeOrderPlaced || ev.TotalCost != 2000 || ev.ItemCount != 2 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestKafkaPublisher_StatusUpdated(t *testing.T) {
	w := &captureWriter{}
	p := newTestPublisher(w)

	if err := p.OrderStatusUpdated(context.Background(), "u1", "o-1", domain.StatusCancelled); err != nil {
		t.Fatalf("OrderStatusUpdated returned error: %v", err)
	}
	var ev OrderEvent
	_ = json.Unmarshal(w.msgs[0].Value, &ev)
	if ev.Type != TypeOrderStatusUpdated || ev.Status != domain.StatusCancelled {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	cause := errors.New("leader not available")
	p := newTestPublisher(&captureWriter{err: cause})

	if err := p.OrderStatusUpdated(context.Background(), "u1", "o-1", domain.StatusCompleted); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
