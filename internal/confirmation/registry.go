package confirmation

import (
	"container/list"
	"sync"

	"go.uber.org/zap"
)

const defaultCapacity = 256

type Option func(*Registry)

// WithCapacity bounds how many references the registry remembers.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// Registry keeps one Flow per reference so that reloading the confirmation
// link shows the same accept state. Only the most recently used flows are
// kept; flows whose fetch failed are dropped by Settle.
type Registry struct {
	gateway  Gateway
	logger   *zap.Logger
	capacity int

	mu    sync.Mutex
	order *list.List
	flows map[string]*list.Element
}

type entry struct {
	ref  string
	flow *Flow
}

func NewRegistry(gateway Gateway, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		gateway:  gateway,
		logger:   logger,
		capacity: defaultCapacity,
		order:    list.New(),
		flows:    map[string]*list.Element{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Flow returns the flow for ref. An empty ref always gets a fresh no-id flow.
func (r *Registry) Flow(ref string) *Flow {
	if ref == "" {
		return NewFlow("", r.gateway, r.logger)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.flows[ref]; ok {
		r.order.MoveToFront(el)
		return el.Value.(*entry).flow
	}

	f := NewFlow(ref, r.gateway, r.logger)
	r.flows[ref] = r.order.PushFront(&entry{ref: ref, flow: f})
	r.evictLocked()
	return f
}

// Settle forgets ref when its flow holds nothing worth keeping: the fetch
// failed and no confirmation is running or done. Unknown or mistyped
// references therefore never accumulate.
func (r *Registry) Settle(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.flows[ref]
	if !ok {
		return
	}
	if el.Value.(*entry).flow.failed() {
		r.removeLocked(el)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// evictLocked drops least recently used flows over capacity, skipping the
// ones with a request in flight.
func (r *Registry) evictLocked() {
	for el := r.order.Back(); el != nil && len(r.flows) > r.capacity; {
		prev := el.Prev()
		if !el.Value.(*entry).flow.busy() {
			r.removeLocked(el)
		}
		el = prev
	}
}

func (r *Registry) removeLocked(el *list.Element) {
	r.order.Remove(el)
	delete(r.flows, el.Value.(*entry).ref)
}
