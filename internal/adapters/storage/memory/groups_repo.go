package memory

import (
	"context"
	"errors"
	"strings"

	"therapy-track/internal/domain/groups"
	"therapy-track/internal/platform/apperr"
)

type groupRepo struct {
	db *DB
}

func NewGroupRepo(db *DB) groups.Repository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, g groups.Group) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("group id required")
	}
	if _, exists := r.db.groups[g.ID]; exists {
		return errors.New("group already exists")
	}
	r.db.groups[g.ID] = row[groups.Group]{seq: r.db.next(), v: cloneGroup(g)}
	return nil
}

func (r *groupRepo) Update(ctx context.Context, g groups.Group) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, exists := r.db.groups[g.ID]
	if !exists {
		return apperr.NotFound("group", g.ID)
	}
	current.v = cloneGroup(g)
	r.db.groups[g.ID] = current
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	g, ok := r.db.groups[id]
	if !ok {
		return groups.Group{}, apperr.NotFound("group", id)
	}
	return cloneGroup(g.v), nil
}

func (r *groupRepo) List(ctx context.Context) ([]groups.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := sortedValues(r.db.groups)
	for i := range out {
		out[i] = cloneGroup(out[i])
	}
	return out, nil
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.groups[id]; !ok {
		return apperr.NotFound("group", id)
	}
	delete(r.db.groups, id)
	return nil
}

func (r *groupRepo) InUse(ctx context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.schedules {
		for _, d := range s.v.Doses {
			if d.GroupID != nil && *d.GroupID == id {
				return true, nil
			}
		}
	}
	for _, u := range r.db.unscheduled {
		if u.v.GroupID != nil && *u.v.GroupID == id {
			return true, nil
		}
	}
	return false, nil
}
