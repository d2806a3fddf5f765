package stores

import (
	"context"
	"sync"

	"github.com/securecart/securecart"
)

// Memory is a mutex-guarded in-memory identity store. The zero value
// is not usable; construct via [NewMemory].
type Memory struct {
	mu        sync.RWMutex
	byID      map[string]securecart.Identity
	idByEmail map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:      make(map[string]securecart.Identity),
		idByEmail: make(map[string]string),
	}
}

func (m *Memory) FindByEmail(_ context.Context, email string) (securecart.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.idByEmail[email]
	if !ok {
		return securecart.Identity{}, securecart.ErrIdentityNotFound
	}
	return m.byID[id], nil
}

func (m *Memory) FindByID(_ context.Context, id string) (securecart.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	identity, ok := m.byID[id]
	if !ok {
		return securecart.Identity{}, securecart.ErrIdentityNotFound
	}
	return identity, nil
}

func (m *Memory) Insert(_ context.Context, identity securecart.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[identity.ID]; ok {
		return securecart.ErrDuplicateIdentity
	}
	if _, ok := m.idByEmail[identity.Email]; ok {
		return securecart.ErrDuplicateIdentity
	}
	m.byID[identity.ID] = identity
	m.idByEmail[identity.Email] = identity.ID
	return nil
}

func (m *Memory) Update(_ context.Context, id string, mutate func(*securecart.Identity) error) (securecart.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	identity, ok := m.byID[id]
	if !ok {
		return securecart.Identity{}, securecart.ErrIdentityNotFound
	}

	// Mutate a copy; the map entry only changes if mutate accepts.
	if err := mutate(&identity); err != nil {
		return securecart.Identity{}, err
	}
	m.byID[id] = identity
	return identity, nil
}
