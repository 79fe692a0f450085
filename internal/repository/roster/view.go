package roster

import (
	"sync"

	"github.com/sharetube/client/internal/domain"
)

// Row is the rendered form of one roster entry.
type Row struct {
	UserID   *domain.UserID `json:"user_id"`
	Name     string         `json:"name"`
	Avatar   string         `json:"avatar"`
	Time     string         `json:"time"`
	Buffered string         `json:"buffered"`
	State    string         `json:"state"`
	Badges   []string       `json:"badges"`
	IsSelf   bool           `json:"is_self"`
}

// View displays one entry. Entries only call it from the goroutine that owns them.
type View interface {
	RenderRow(row Row)
	RenderBadges(badges []domain.BadgeID)
	Remove()
}

// Renderer hands out one View per roster entry.
type Renderer interface {
	NewView() View
}

// Table is an in-memory Renderer whose rows can be read from any goroutine.
type Table struct {
	mu      sync.RWMutex
	nextID  int
	order   []int
	rows    map[int]Row
	renders map[int]int
}

func NewTable() *Table {
	return &Table{
		rows:    make(map[int]Row),
		renders: make(map[int]int),
	}
}

func (t *Table) NewView() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.order = append(t.order, id)
	t.rows[id] = Row{}

	return &tableRow{table: t, id: id}
}

// Rows returns the displayed rows in insertion order.
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]Row, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id])
	}

	return rows
}

// BadgeRenders counts how many times badges were redrawn across all rows.
func (t *Table) BadgeRenders() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, n := range t.renders {
		total += n
	}

	return total
}

type tableRow struct {
	table *Table
	id    int
}

func (r *tableRow) RenderRow(row Row) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if _, ok := r.table.rows[r.id]; !ok {
		return
	}

	// badges are owned by RenderBadges
	row.Badges = r.table.rows[r.id].Badges
	r.table.rows[r.id] = row
}

func (r *tableRow) RenderBadges(badges []domain.BadgeID) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	row, ok := r.table.rows[r.id]
	if !ok {
		return
	}

	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, domain.Badge(b).Name)
	}
	row.Badges = names

	r.table.rows[r.id] = row
	r.table.renders[r.id]++
}

func (r *tableRow) Remove() {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	delete(r.table.rows, r.id)
	delete(r.table.renders, r.id)
	for i, id := range r.table.order {
		if id == r.id {
			r.table.order = append(r.table.order[:i], r.table.order[i+1:]...)
			break
		}
	}
}
