package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory keeps documents in process. It backs mem:// uris and tests.
type Memory struct {
	mu         sync.Mutex
	database   string
	collection string
	order      []string
	docs       map[string][]json.RawMessage
}

func NewMemory(database, collection string) *Memory {
	return &Memory{
		database:   database,
		collection: collection,
		docs:       make(map[string][]json.RawMessage),
	}
}

func (m *Memory) Name() string { return m.database + "." + m.collection }

func (m *Memory) Find(ctx context.Context, f Filter) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.order
	if f.ID != "" {
		ids = []string{f.ID}
	}
	// Documents are keyed by id, only the QC needs checking.
	qc := Filter{QC: f.QC}
	var found []json.RawMessage
	for _, id := range ids {
		for _, doc := range m.docs[id] {
			ok, err := matches(doc, qc)
			if err != nil {
				return nil, err
			}
			if ok {
				found = append(found, doc)
			}
		}
	}
	return found, nil
}

func (m *Memory) Insert(ctx context.Context, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		m.order = append(m.order, id)
	}
	m.docs[id] = append(m.docs[id], append(json.RawMessage(nil), doc...))
	return nil
}

func (m *Memory) Close() error { return nil }
