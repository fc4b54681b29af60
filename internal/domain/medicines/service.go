package medicines

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"therapy-track/internal/platform/apperr"
	"therapy-track/internal/platform/logger"
)

const MaxNameLength = 100

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"module": "medicines"}),
	}
}

type Input struct {
	Name              string
	BaseUnit          string
	ActiveIngredients []ActiveIngredient
}

// Validate normaliza el input y devuelve flags por campo (apperr VALIDATION).
func (in Input) Validate() (Medicine, error) {
	f := apperr.Fields{}

	name := strings.TrimSpace(in.Name)
	f.Check("name", name != "" && utf8.RuneCountInString(name) <= MaxNameLength)

	unit := BaseUnit(strings.TrimSpace(in.BaseUnit))
	f.Check("base_unit", unit.Valid())

	ingredients := make([]ActiveIngredient, 0, len(in.ActiveIngredients))
	for _, ai := range in.ActiveIngredients {
		ai.Name = strings.TrimSpace(ai.Name)
		f.Check("active_ingredients.name", ai.Name != "")
		f.Check("active_ingredients.amount", !math.IsNaN(ai.Amount) && !math.IsInf(ai.Amount, 0) && ai.Amount >= 0)
		f.Check("active_ingredients.unit", ai.Unit.Valid())
		ingredients = append(ingredients, ai)
	}

	if err := f.Err(); err != nil {
		return Medicine{}, err
	}
	return Medicine{Name: name, BaseUnit: unit, ActiveIngredients: ingredients}, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Medicine, error) {
	m, err := in.Validate()
	if err != nil {
		return Medicine{}, err
	}
	m.ID = uuid.NewString()

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	s.log.Info("medicine created", map[string]any{"medicine_id": m.ID, "name": m.Name})
	return m, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Medicine, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Medicine{}, err
	}
	m, err := in.Validate()
	if err != nil {
		return Medicine{}, err
	}
	m.ID = id

	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	s.log.Info("medicine updated", map[string]any{"medicine_id": m.ID})
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, apperr.NotFound("medicine", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Medicine, error) {
	return s.repo.List(ctx)
}

// Catalog devuelve el catálogo indexado por id (entrada del resolver de dosis).
func (s *Service) Catalog(ctx context.Context) (map[string]Medicine, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Medicine, len(items))
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

// Delete rechaza con IN_USE antes de tocar el storage si hay referencias.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		s.log.Warn("medicine delete refused", map[string]any{"medicine_id": id, "reason": "in use"})
		return apperr.InUse("medicine", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("medicine deleted", map[string]any{"medicine_id": id})
	return nil
}
