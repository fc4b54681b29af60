package memory

import (
	"sort"
	"sync"

	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
)

// DB es el store in-process compartido por todos los repos (dev + tests).
// Un solo mutex cubre todas las tablas: las operaciones multi-tabla
// (toggle, borrado en cascada, chequeos de uso) son atómicas.
type DB struct {
	mu  sync.RWMutex
	seq int64

	medicines   map[string]row[medicines.Medicine]
	groups      map[string]row[groups.Group]
	schedules   map[string]row[schedules.Schedule]
	scheduled   map[intake.Key]intake.ScheduledRecord
	unscheduled map[string]row[intake.UnscheduledRecord]
}

// row guarda el orden de inserción para listados estables.
type row[T any] struct {
	seq int64
	v   T
}

func NewDB() *DB {
	return &DB{
		medicines:   make(map[string]row[medicines.Medicine]),
		groups:      make(map[string]row[groups.Group]),
		schedules:   make(map[string]row[schedules.Schedule]),
		scheduled:   make(map[intake.Key]intake.ScheduledRecord),
		unscheduled: make(map[string]row[intake.UnscheduledRecord]),
	}
}

// next se llama con mu tomado en escritura.
func (db *DB) next() int64 {
	db.seq++
	return db.seq
}

func sortedValues[T any](m map[string]row[T]) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.v)
	}
	return out
}

func cloneMedicine(m medicines.Medicine) medicines.Medicine {
	if m.ActiveIngredients != nil {
		m.ActiveIngredients = append([]medicines.ActiveIngredient(nil), m.ActiveIngredients...)
	}
	return m
}

func cloneSchedule(s schedules.Schedule) schedules.Schedule {
	if s.End != nil {
		end := *s.End
		s.End = &end
	}
	doses := make([]schedules.Dose, len(s.Doses))
	for i, d := range s.Doses {
		d.Offset = cloneInt(d.Offset)
		d.GroupID = cloneString(d.GroupID)
		doses[i] = d
	}
	s.Doses = doses
	return s
}

func cloneGroup(g groups.Group) groups.Group {
	g.ReminderTime = cloneString(g.ReminderTime)
	return g
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
