package runtime

import (
	"sync"
)

type Set map[string]struct{}

// Notifier is told that a collection it watches has changed.
type Notifier interface {
	Notify()
}

type Registry struct {
	mu                sync.RWMutex
	Sessions          map[string]Notifier // map subscription -> Notifier
	CollectionMembers map[string]Set      // map collection to subscriptions
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:          make(map[string]Notifier),
		CollectionMembers: make(map[string]Set),
	}
}

// GetNotifiersForCollection resolves the subscriptions watching a collection.
// Returns nil if nobody watches it.
func (r *Registry) GetNotifiersForCollection(collection string) []Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.CollectionMembers[collection]
	if !ok {
		return nil
	}
	var active []Notifier
	for subscriptionID := range members {
		if n, exists := r.Sessions[subscriptionID]; exists {
			active = append(active, n)
		}
	}
	return active
}

// Subscribe registers a subscription on a collection.
// The collection entry is initialized on the fly.
func (r *Registry) Subscribe(subscriptionID, collection string, n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[subscriptionID] = n

	if _, ok := r.CollectionMembers[collection]; !ok {
		r.CollectionMembers[collection] = make(Set)
	}
	r.CollectionMembers[collection][subscriptionID] = struct{}{}
}

// Unsubscribe removes a subscription and drops empty collection sets
// to prevent memory leaks over time.
func (r *Registry) Unsubscribe(subscriptionID, collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, subscriptionID)

	if members, ok := r.CollectionMembers[collection]; ok {
		delete(members, subscriptionID)
		if len(members) == 0 {
			delete(r.CollectionMembers, collection)
		}
	}
}

// Notify wakes every subscription of the collection. It never blocks.
func (r *Registry) Notify(collection string) {
	for _, n := range r.GetNotifiersForCollection(collection) {
		n.Notify()
	}
}

// Collections lists the collections watched by at least one subscription.
func (r *Registry) Collections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]string, 0, len(r.CollectionMembers))
	for collection := range r.CollectionMembers {
		res = append(res, collection)
	}
	return res
}
