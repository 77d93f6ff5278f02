package store

import (
	"context"
	"sync"

	"github.com/agentstation/shelf/pkg/catalog"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records catalog.Records
	saves   int

	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

// NewMemory creates a memory store seeded with records.
func NewMemory(records ...catalog.Record) *Memory {
	return &Memory{records: catalog.Records(records).Clone()}
}

// Load returns a copy of the stored records.
func (m *Memory) Load(ctx context.Context) (catalog.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.records.Clone()
	if out == nil {
		out = catalog.Records{}
	}
	return Sanitize(out, nil), nil
}

// Save replaces the stored records.
func (m *Memory) Save(ctx context.Context, records []catalog.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if err := catalog.Records(records).Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = catalog.Records(records).Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
