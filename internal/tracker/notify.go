package tracker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/types"
)

// Event tells subscribers that the record set changed and should be re-fetched.
type Event struct {
	Op     string       `json:"op"`
	ID     int64        `json:"id"`
	Status types.Status `json:"status,omitempty"`
}

// Notifier receives an Event after every successful mutation.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}

// Broadcaster fans events out to subscribers. Slow subscribers drop events
// rather than block a mutation; any event is enough to trigger a refresh.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]chan Event
	buffer int
}

// NewBroadcaster creates a Broadcaster whose subscriber channels hold buffer events.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{subs: make(map[uuid.UUID]chan Event), buffer: buffer}
}

// Subscribe registers a new subscriber. cancel must be called to release it.
func (b *Broadcaster) Subscribe() (id uuid.UUID, events <-chan Event, cancel func()) {
	ch := make(chan Event, b.buffer)
	id = uuid.New()

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return id, ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Notify implements Notifier.
func (b *Broadcaster) Notify(_ context.Context, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
