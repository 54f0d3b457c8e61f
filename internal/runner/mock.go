package runner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// MockQuery is the single statement the mock executor recognizes.
const MockQuery = "SELECT * FROM users LIMIT 10;"

// ErrMockQuery is returned by the mock for any other statement.
var ErrMockQuery = errors.New("only default mock query supported")

// DefaultMockDelay simulates backend latency.
const DefaultMockDelay = 600 * time.Millisecond

// Mock is an Executor that simulates a backend: a fixed delay, one
// recognized statement, and a hard-coded result set.
type Mock struct {
	Delay time.Duration
}

// NewMock creates a mock executor with the default simulated delay.
func NewMock() *Mock {
	return &Mock{Delay: DefaultMockDelay}
}

// Execute waits out the simulated delay, then returns the fixed users
// dataset for MockQuery and ErrMockQuery for everything else.
func (m *Mock) Execute(ctx context.Context, sql string) (*core.Result, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if strings.TrimSpace(sql) != MockQuery {
		return nil, ErrMockQuery
	}
	return mockUsers(), nil
}

// Catalog returns the fixed mock schema.
func (m *Mock) Catalog(_ context.Context) ([]core.Table, error) {
	return []core.Table{
		{
			Schema: "public",
			Name:   "users",
			Type:   "table",
			Columns: []core.Column{
				{Name: "id", Type: "INTEGER"},
				{Name: "name", Type: "VARCHAR"},
				{Name: "email", Type: "VARCHAR"},
				{Name: "role", Type: "VARCHAR"},
				{Name: "active", Type: "BOOLEAN"},
				{Name: "score", Type: "DOUBLE"},
			},
		},
		{
			Schema: "public",
			Name:   "orders",
			Type:   "table",
			Columns: []core.Column{
				{Name: "id", Type: "INTEGER"},
				{Name: "user_id", Type: "INTEGER"},
				{Name: "total", Type: "DOUBLE"},
				{Name: "placed_at", Type: "TIMESTAMP"},
			},
		},
		{
			Schema: "public",
			Name:   "active_users",
			Type:   "view",
			Columns: []core.Column{
				{Name: "id", Type: "INTEGER"},
				{Name: "name", Type: "VARCHAR"},
			},
		},
	}, nil
}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}

// mockUsers builds the fixed 15-row dataset returned for MockQuery. Built
// fresh per run so every completed run yields a new result identity, which
// is what resets grid projections.
func mockUsers() *core.Result {
	type u struct {
		name, email, role string
		active            bool
		score             float64
	}
	seed := []u{
		{"Ada Lovelace", "ada@example.com", "admin", true, 91.4},
		{"Grace Hopper", "grace@example.com", "admin", true, 88.1},
		{"Alan Turing", "alan@example.com", "analyst", true, 95.0},
		{"Edsger Dijkstra", "edsger@example.com", "analyst", false, 82.7},
		{"Barbara Liskov", "barbara@example.com", "engineer", true, 90.2},
		{"Donald Knuth", "donald@example.com", "engineer", true, 93.6},
		{"Margaret Hamilton", "margaret@example.com", "engineer", true, 94.3},
		{"John Backus", "john@example.com", "analyst", false, 77.9},
		{"Frances Allen", "frances@example.com", "engineer", true, 86.5},
		{"Ken Thompson", "ken@example.com", "admin", true, 89.9},
		{"Dennis Ritchie", "dennis@example.com", "admin", false, 92.1},
		{"Radia Perlman", "radia@example.com", "engineer", true, 87.4},
		{"Leslie Lamport", "leslie@example.com", "analyst", true, 84.8},
		{"Tony Hoare", "tony@example.com", "analyst", false, 81.3},
		{"Niklaus Wirth", "niklaus@example.com", "engineer", true, 85.0},
	}

	res := &core.Result{
		Columns: []string{"id", "name", "email", "role", "active", "score"},
	}
	for i, s := range seed {
		res.Rows = append(res.Rows, []core.Value{
			core.Int(i + 1),
			core.String(s.name),
			core.String(s.email),
			core.String(s.role),
			core.Bool(s.active),
			core.Number(s.score),
		})
	}
	return res
}
