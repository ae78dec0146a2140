package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBroker_PublishSubscribe(t *testing.T) {
	b := NewBroker()

	t.Run("Subscriber receives events for its table", func(t *testing.T) {
		ch, cancel := b.Subscribe(TablePledges)
		defer cancel()

		b.Publish(Change{Table: TablePledges, Type: EventInsert, ID: "p1"})

		select {
		case c := <-ch:
			assert.Equal(t, TablePledges, c.Table)
			assert.Equal(t, EventInsert, c.Type)
			assert.Equal(t, "p1", c.ID)
		case <-time.After(time.Second):
			t.Fatal("expected a change event")
		}
	})

	t.Run("Events for other tables are filtered out", func(t *testing.T) {
		ch, cancel := b.Subscribe(TableRequests)
		defer cancel()

		b.Publish(Change{Table: TablePledges, Type: EventInsert, ID: "p2"})

		select {
		case c := <-ch:
			t.Fatalf("unexpected event: %+v", c)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("Empty table list receives everything", func(t *testing.T) {
		ch, cancel := b.Subscribe()
		defer cancel()

		b.Publish(Change{Table: TableDonors, Type: EventUpdate, ID: "d1"})

		select {
		case c := <-ch:
			assert.Equal(t, TableDonors, c.Table)
		case <-time.After(time.Second):
			t.Fatal("expected a change event")
		}
	})
}

func TestBroker_Cancel(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe(TableRequests)
	assert.Equal(t, 1, b.SubscriberCount())

	cancel()
	assert.Equal(t, 0, b.SubscriberCount())

	// Channel is closed after cancellation.
	_, open := <-ch
	assert.False(t, open)

	// Cancelling twice is safe.
	cancel()
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()

	_, cancel := b.Subscribe(TableRequests)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More events than the buffer holds; Publish must not block.
		for i := 0; i < 100; i++ {
			b.Publish(Change{Table: TableRequests, Type: EventUpdate, ID: "r1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
