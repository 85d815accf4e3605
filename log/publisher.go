package log

import "sync"

const defaultBufferSize = 64

// Publisher is an [io.Writer] that fans a copy of every written record out
// to all active subscriptions. Write never blocks: a subscription that has
// fallen behind loses its oldest buffered record to make room for the new
// one. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	bufSize int
	closed  bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets how many records each subscription buffers before the
// oldest is dropped. Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.bufSize = n
	}
}

// NewPublisher creates a [Publisher]. The default per-subscription buffer
// size is 64 records.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		subs:    make(map[uint64]*Subscription),
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Write copies b and delivers the copy to every active subscription,
// dropping a lagging subscription's oldest record rather than blocking.
// Write always returns len(b), nil; after [Publisher.Close] it is a no-op.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	record := make([]byte, len(b))
	copy(record, b)

	for _, sub := range p.subs {
		sub.deliver(record)
	}

	return len(b), nil
}

// Subscribe registers and returns a new [Subscription]. Subscribing to an
// already-closed Publisher returns a subscription whose channel is already
// closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		pub: p,
		id:  p.nextID,
		ch:  make(chan []byte, p.bufSize),
	}
	p.nextID++

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subs[sub.id] = sub

	return sub
}

// Close closes every subscription's channel and drops the subscriber list.
// Idempotent; always returns nil.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	for _, sub := range p.subs {
		close(sub.ch)
	}

	p.subs = nil

	return nil
}

// unsubscribe detaches sub, discards any records still buffered for it and
// closes its channel, if it is still attached.
func (p *Publisher) unsubscribe(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	if _, ok := p.subs[sub.id]; !ok {
		return
	}

	delete(p.subs, sub.id)

drain:
	for {
		select {
		case <-sub.ch:
		default:
			break drain
		}
	}

	close(sub.ch)
}

// Subscription receives records from a [Publisher].
type Subscription struct {
	pub *Publisher
	id  uint64
	ch  chan []byte
}

// C returns the channel delivering this subscription's records. The channel
// is closed when either the subscription or its Publisher closes. Callers
// must not modify the received byte slices.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close detaches the subscription from its Publisher and closes its
// channel, discarding anything still buffered. Idempotent.
func (s *Subscription) Close() {
	s.pub.unsubscribe(s)
}

// deliver enqueues record, evicting the oldest buffered record when the
// channel is full. Called with the Publisher's lock held, which is what
// makes the evict-then-send pair safe: no other deliver can interleave.
func (s *Subscription) deliver(record []byte) {
	select {
	case s.ch <- record:
	default:
		<-s.ch

		s.ch <- record
	}
}
