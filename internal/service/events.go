package service

import (
	"context"
	"sync"
)

type EventKind string

const (
	EventLogin       EventKind = "user-login"
	EventLogout      EventKind = "user-logout"
	EventCartChanged EventKind = "cart-changed"
)

type Handler func(ctx context.Context, kind EventKind)

// Bus delivers events synchronously, in subscription order, on the publisher's goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventKind][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[EventKind][]Handler)}
}

func (b *Bus) Subscribe(kind EventKind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], h)
}

func (b *Bus) Publish(ctx context.Context, kind EventKind) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[kind]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, kind)
	}
}
