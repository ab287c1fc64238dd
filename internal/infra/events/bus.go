package events

import (
	"sync"

	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/infra/metrics"
)

// StatusEvent is what subscribers receive on every publish.
type StatusEvent struct {
	ID     string              `json:"id"`
	Status model.PaymentStatus `json:"status"`
}

type Handler func(StatusEvent)

// PaymentBus fans payment status changes out to live subscribers, keyed by
// payment id. An explicit registry owned by whoever constructs it — never a
// package-level singleton — so tests get isolated instances.
//
// No buffering or replay: a subscriber attached after a publish sees nothing
// retroactively. Callers needing the current state query it separately at
// subscribe time.
type PaymentBus struct {
	mu    sync.RWMutex
	subs  map[string]map[uint64]Handler
	nextT uint64
}

func NewPaymentBus() *PaymentBus {
	return &PaymentBus{subs: make(map[string]map[uint64]Handler)}
}

// Subscribe registers h for paymentID and returns the token used to
// unsubscribe.
func (b *PaymentBus) Subscribe(paymentID string, h Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextT++
	token := b.nextT
	m, ok := b.subs[paymentID]
	if !ok {
		m = make(map[uint64]Handler)
		b.subs[paymentID] = m
	}
	m[token] = h
	metrics.SetBusSubscribers(b.countLocked())
	return token
}

func (b *PaymentBus) Unsubscribe(paymentID string, token uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.subs[paymentID]
	if !ok {
		return
	}
	delete(m, token)
	if len(m) == 0 {
		delete(b.subs, paymentID)
	}
	metrics.SetBusSubscribers(b.countLocked())
}

// Publish delivers the event to every handler subscribed to paymentID at the
// time of the call. The handler set is snapshotted before invocation, so a
// handler may unsubscribe itself (or anyone else) mid-publish.
func (b *PaymentBus) Publish(paymentID string, status model.PaymentStatus) {
	b.mu.RLock()
	snapshot := make([]Handler, 0, len(b.subs[paymentID]))
	for _, h := range b.subs[paymentID] {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	ev := StatusEvent{ID: paymentID, Status: status}
	for _, h := range snapshot {
		h(ev)
	}
	metrics.IncBusPublished(string(status))
	metrics.IncPayment(string(status))
}

func (b *PaymentBus) countLocked() int {
	n := 0
	for _, m := range b.subs {
		n += len(m)
	}
	return n
}
