package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Mirror is an id-keyed read model of the change feed. State changes only
// through Apply, which reduces each event into the map: created and
// updated upsert the row, deleted removes it. Readers get copies, never
// the live map.
type Mirror struct {
	mu       sync.RWMutex
	entities map[string]map[uuid.UUID]json.RawMessage
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{
		entities: make(map[string]map[uuid.UUID]json.RawMessage),
	}
}

// Apply reduces one change event into the mirror.
func (m *Mirror) Apply(event ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.entities[event.Entity]
	if !ok {
		rows = make(map[uuid.UUID]json.RawMessage)
		m.entities[event.Entity] = rows
	}

	switch event.Action {
	case ActionCreated, ActionUpdated:
		rows[event.EntityID] = event.Row
	case ActionDeleted:
		delete(rows, event.EntityID)
	}
}

// Get returns the mirrored row for an entity id.
func (m *Mirror) Get(entity string, id uuid.UUID) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.entities[entity][id]
	return row, ok
}

// Rows returns all mirrored rows for an entity type.
func (m *Mirror) Rows(entity string) []json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]json.RawMessage, 0, len(m.entities[entity]))
	for _, row := range m.entities[entity] {
		rows = append(rows, row)
	}
	return rows
}

// Count returns the number of mirrored rows for an entity type.
func (m *Mirror) Count(entity string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entities[entity])
}

// Reset drops all mirrored state, forcing the next snapshot to rebuild
// from the database.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entities = make(map[string]map[uuid.UUID]json.RawMessage)
}
