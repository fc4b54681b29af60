package memory

import (
	"context"
	"errors"
	"strings"

	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/platform/apperr"
)

type medicineRepo struct {
	db *DB
}

func NewMedicineRepo(db *DB) medicines.Repository {
	return &medicineRepo{db: db}
}

func (r *medicineRepo) Create(ctx context.Context, m medicines.Medicine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.db.medicines[m.ID]; exists {
		return errors.New("medicine already exists")
	}
	r.db.medicines[m.ID] = row[medicines.Medicine]{seq: r.db.next(), v: cloneMedicine(m)}
	return nil
}

func (r *medicineRepo) Update(ctx context.Context, m medicines.Medicine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, exists := r.db.medicines[m.ID]
	if !exists {
		return apperr.NotFound("medicine", m.ID)
	}
	current.v = cloneMedicine(m)
	r.db.medicines[m.ID] = current
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.medicines[id]
	if !ok {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}
	return cloneMedicine(m.v), nil
}

func (r *medicineRepo) List(ctx context.Context) ([]medicines.Medicine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := sortedValues(r.db.medicines)
	for i := range out {
		out[i] = cloneMedicine(out[i])
	}
	return out, nil
}

func (r *medicineRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.medicines[id]; !ok {
		return apperr.NotFound("medicine", id)
	}
	delete(r.db.medicines, id)
	return nil
}

func (r *medicineRepo) InUse(ctx context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.schedules {
		if s.v.MedicineID == id {
			return true, nil
		}
	}
	for _, u := range r.db.unscheduled {
		if u.v.MedicineID == id {
			return true, nil
		}
	}
	return false, nil
}
