package verifiers

import (
	"context"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// mockOriginRepo implements secondary.OriginRepository for verifier tests.
type mockOriginRepo struct {
	origins map[string]*secondary.OriginRow
}

func newMockOriginRepo(origins ...*secondary.OriginRow) *mockOriginRepo {
	m := &mockOriginRepo{origins: make(map[string]*secondary.OriginRow)}
	for _, o := range origins {
		m.origins[o.ID] = o
	}
	return m
}

func (m *mockOriginRepo) Create(_ context.Context, origin *secondary.OriginRow) error {
	m.origins[origin.ID] = origin
	return nil
}

func (m *mockOriginRepo) GetByID(_ context.Context, id string) (*secondary.OriginRow, error) {
	o, ok := m.origins[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return o, nil
}

func (m *mockOriginRepo) List(_ context.Context, _ secondary.OriginFilters) ([]*secondary.OriginRow, error) {
	var out []*secondary.OriginRow
	for _, o := range m.origins {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOriginRepo) GetNextID(_ context.Context) (string, error) {
	return "ORIG-999", nil
}

var _ secondary.OriginRepository = (*mockOriginRepo)(nil)
