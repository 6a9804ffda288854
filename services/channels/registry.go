package channels

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrChannelNotFound is returned when a channel is not registered
	ErrChannelNotFound = errors.New("channel not found")

	// ErrChannelAlreadyRegistered is returned when trying to register a duplicate channel
	ErrChannelAlreadyRegistered = errors.New("channel already registered")
)

// Registry manages channel adapter instances
type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

// NewRegistry creates a new channel registry
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]Channel),
	}
}

// Register registers a channel instance
func (r *Registry) Register(channel Channel) error {
	if channel == nil {
		return errors.New("channel cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := channel.Name()
	if name == "" {
		return errors.New("channel name cannot be empty")
	}

	if _, exists := r.channels[name]; exists {
		return ErrChannelAlreadyRegistered
	}

	r.channels[name] = channel
	return nil
}

// Get retrieves a channel by name
func (r *Registry) Get(name string) (Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, exists := r.channels[name]
	if !exists {
		return nil, ErrChannelNotFound
	}

	return channel, nil
}

// List returns all registered channel names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Count returns the number of registered channels
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.channels)
}
