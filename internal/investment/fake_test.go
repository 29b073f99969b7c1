package investment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
	invrepo "github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/repo"
)

type memStore struct {
	mu   sync.Mutex
	recs map[string]entity.Investment
	err  error
}

func newMemStore() *memStore {
	return &memStore{recs: map[string]entity.Investment{}}
}

func (m *memStore) Create(_ context.Context, inv *entity.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recs[inv.ID] = *inv
	return nil
}

func (m *memStore) ListByOwner(_ context.Context, ownerID string) ([]entity.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []entity.Investment
	for _, r := range m.recs {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateByOwner(_ context.Context, id, ownerID string, p entity.Patch) (*entity.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.recs[id]
	if !ok || r.OwnerID != ownerID {
		return nil, invrepo.ErrNotFound
	}
	if p.ProjectName != nil {
		r.ProjectName = *p.ProjectName
	}
	if p.AmountInvested != nil {
		r.AmountInvested = *p.AmountInvested
	}
	if p.EnergyGenerated != nil {
		r.EnergyGenerated = *p.EnergyGenerated
	}
	if p.Returns != nil {
		r.Returns = *p.Returns
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	m.recs[id] = r
	return &r, nil
}

func (m *memStore) DeleteByOwner(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r, ok := m.recs[id]
	if !ok || r.OwnerID != ownerID {
		return invrepo.ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

// seqIDs hands out inv-1, inv-2, ...
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("inv-%d", s.n)
}

var errStoreDown = errors.New("store down")

func f64(v float64) *float64 { return &v }
func str(v string) *string    { return &v }
