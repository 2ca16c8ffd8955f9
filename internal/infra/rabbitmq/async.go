package rabbitmq

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrBufferFull      = errors.New("event buffer full")
	ErrPublisherClosed = errors.New("publisher closed")
)

const publishTimeout = 5 * time.Second

type event struct {
	pattern string
	data    any
}

// AsyncPublisher queues events in a bounded buffer and hands them to the next
// publisher from one worker goroutine. Publish never blocks; events that do
// not fit are dropped.
type AsyncPublisher struct {
	next   PublisherInterface
	events chan event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsyncPublisher(next PublisherInterface, buffer int) *AsyncPublisher {
	if buffer < 1 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:   next,
		events: make(chan event, buffer),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) Publish(_ context.Context, pattern string, data any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- event{pattern: pattern, data: data}:
		return nil
	default:
		log.Printf("dropping %s event: buffer full", pattern)
		return ErrBufferFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := p.next.Publish(ctx, ev.pattern, ev.data); err != nil {
			log.Printf("Failed to publish %s event: %v", ev.pattern, err)
		}
		cancel()
	}
}

// Close stops accepting events, waits until the queued ones are delivered and
// the worker has exited. It is safe to call more than once.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()
	<-p.done
}
