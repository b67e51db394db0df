package ordersvc

import (
	"sync"

	"github.com/handywriterz/order-admin-svc/internal/service/models/order"
)

// board is the order collection one admin is working on.
// It mirrors the last successful reads and every successful write since.
type board struct {
	// writes is held shared by mutations and exclusively by a reload,
	// so a reload never replaces the board with rows read before a write landed.
	writes sync.RWMutex

	mu     sync.RWMutex
	loaded bool
	orders []order.Order
	index  map[string]int
}

func newBoard() *board {
	return &board{
		orders: []order.Order{},
		index:  make(map[string]int),
	}
}

func (b *board) beginWrite() (release func()) {
	b.writes.RLock()

	return b.writes.RUnlock
}

func (b *board) beginReload() (release func()) {
	b.writes.Lock()

	return b.writes.Unlock
}

func (b *board) isLoaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.loaded
}

// replace swaps the collection. orders must already be sorted.
func (b *board) replace(orders []order.Order) {
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		index[o.ID] = i
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders = orders
	b.index = index
	b.loaded = true
}

func (b *board) get(id string) (order.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i, ok := b.index[id]
	if !ok {
		return order.Order{}, false
	}

	return b.orders[i].Clone(), true
}

func (b *board) snapshot() []order.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res := make([]order.Order, len(b.orders))
	for i, o := range b.orders {
		res[i] = o.Clone()
	}

	return res
}

// fromSource returns the records last read from one source.
func (b *board) fromSource(source order.Source) []order.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res := make([]order.Order, 0)
	for _, o := range b.orders {
		if o.Source == source {
			res = append(res, o.Clone())
		}
	}

	return res
}

// update applies fn to the order with the given id and returns the result.
func (b *board) update(id string, fn func(o *order.Order)) (order.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[id]
	if !ok {
		return order.Order{}, false
	}
	fn(&b.orders[i])

	return b.orders[i].Clone(), true
}
