package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Gateway. It assigns ids and timestamps the way the
// hosted backend does and is used for local runs and tests.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row
	now    func() time.Time
	newID  func() string
	last   time.Time
}

// MemoryOption customises a Memory gateway.
type MemoryOption func(*Memory)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(next func() string) MemoryOption {
	return func(m *Memory) { m.newID = next }
}

// NewMemory returns an empty in-memory gateway.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables: make(map[string][]Row),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed stores rows verbatim, bypassing id and timestamp assignment.
func (m *Memory) Seed(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], r.Clone())
	}
}

func (m *Memory) Select(_ context.Context, table string, q Query) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, r := range m.tables[table] {
		if matches(r, q.Filters) {
			out = append(out, project(r, q.Columns))
		}
	}
	if q.Order != nil {
		col := q.Order.Column
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fmt.Sprint(out[i][col]), fmt.Sprint(out[j][col])
			if q.Order.Descending {
				return a > b
			}
			return a < b
		})
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, table string, rows []Row) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		stored := r.Clone()
		if stored["id"] == nil {
			stored["id"] = m.newID()
		}
		stamp := m.stamp()
		if stored["created_at"] == nil {
			stored["created_at"] = stamp
		}
		if stored["updated_at"] == nil {
			stored["updated_at"] = stamp
		}
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, stored.Clone())
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, table string, patch Row, filters []Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, errMissingFilter("update")
	}
	if len(patch) == 0 {
		return nil, errEmptyPatch()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, r := range m.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range patch {
			r[k] = v
		}
		if _, ok := patch["updated_at"]; !ok {
			r["updated_at"] = m.stamp()
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *Memory) Delete(_ context.Context, table string, filters []Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, errMissingFilter("delete")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tables[table][:0]
	var removed []Row
	for _, r := range m.tables[table] {
		if matches(r, filters) {
			removed = append(removed, r.Clone())
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return removed, nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// stamp returns a non-decreasing timestamp string. Callers hold m.mu.
func (m *Memory) stamp() string {
	now := m.now().UTC()
	if now.Before(m.last) {
		now = m.last
	}
	m.last = now
	return now.Format(TimestampLayout)
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		if fmt.Sprint(r[f.Column]) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func project(r Row, cols []string) Row {
	if len(cols) == 0 {
		return r.Clone()
	}
	out := make(Row, len(cols))
	for _, c := range cols {
		if c == "*" {
			return r.Clone()
		}
		out[c] = r[c]
	}
	return out
}
