package events

import (
	"sync"

	"bloodlink-backend/internal/logger"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
)

// Tables that emit change events.
const (
	TableRequests = "requests"
	TablePledges  = "pledges"
	TableDonors   = "donors"
)

// Change describes one row mutation. Subscribers are expected to refetch the
// affected list rather than merge incrementally.
type Change struct {
	Table string    `json:"table"`
	Type  EventType `json:"type"`
	ID    string    `json:"id"`
}

type subscriber struct {
	ch     chan Change
	tables map[string]bool // nil means all tables
}

// Broker fans row-change events out to in-process subscribers. Publishing
// never blocks: a subscriber whose buffer is full misses the event and
// catches up on its next refetch.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscriber)}
}

// Publish delivers a change to every subscriber watching its table.
func (b *Broker) Publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if sub.tables != nil && !sub.tables[c.Table] {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			logger.Debug("Dropping change event for slow subscriber", "table", c.Table, "id", c.ID)
		}
	}
}

// Subscribe registers interest in the given tables (none means all). The
// returned cancel function must be called when the subscriber goes away.
func (b *Broker) Subscribe(tables ...string) (<-chan Change, func()) {
	sub := &subscriber{ch: make(chan Change, 16)}
	if len(tables) > 0 {
		sub.tables = make(map[string]bool, len(tables))
		for _, t := range tables {
			sub.tables[t] = true
		}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// SubscriberCount reports the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
