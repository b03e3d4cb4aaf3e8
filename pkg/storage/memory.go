package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/jiapu/pkg/family"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]Snapshot
	order []string // insertion order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, familyID string, d family.FamilyData) (Snapshot, error) {
	s, err := NewSnapshot(familyID, d)
	if err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = s
	m.order = append(m.order, s.ID)
	return s, nil
}

func (m *MemoryStore) Latest(ctx context.Context, familyID string) (Snapshot, error) {
	list := m.snapshots(familyID)
	if len(list) == 0 {
		return Snapshot{}, notFound("no snapshot of family %s", familyID)
	}
	return list[0], nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return Snapshot{}, notFound("snapshot %s not found", id)
	}
	return s, nil
}

func (m *MemoryStore) List(ctx context.Context, familyID string) ([]Snapshot, error) {
	list := m.snapshots(familyID)
	for i := range list {
		list[i].Data = family.FamilyData{}
	}
	return list, nil
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

// snapshots returns familyID's snapshots newest first; ties keep the later
// save first.
func (m *MemoryStore) snapshots(familyID string) []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Snapshot
	for i := len(m.order) - 1; i >= 0; i-- {
		if s := m.byID[m.order[i]]; s.FamilyID == familyID {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b Snapshot) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

var _ Store = (*MemoryStore)(nil)
