package medicines

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/platform/apperr"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medicines", func(mr chi.Router) {
		mr.Post("/", createMedicineHandler(svc))
		mr.Get("/", listMedicinesHandler(svc))
		mr.Get("/{medicineID}", getMedicineHandler(svc))
		mr.Put("/{medicineID}", updateMedicineHandler(svc))
		mr.Delete("/{medicineID}", deleteMedicineHandler(svc))
	})
}

type medicineRequest struct {
	Name              string             `json:"name"`
	BaseUnit          string             `json:"base_unit"`
	ActiveIngredients []ActiveIngredient `json:"active_ingredients"`
}

type medicineResponse struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	BaseUnit          BaseUnit           `json:"base_unit"`
	ActiveIngredients []ActiveIngredient `json:"active_ingredients"`
}

// @Summary Crear medicamento
// @Tags medicines
// @Accept json
// @Produce json
// @Param payload body medicineRequest true "Nombre, unidad base y principios activos"
// @Success 201 {object} medicineResponse
// @Failure 400 {object} apperr.Response
// @Router /medicines [post]
func createMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMedicineResponse(m))
	}
}

// @Summary Listar medicamentos
// @Tags medicines
// @Produce json
// @Success 200 {array} medicineResponse
// @Router /medicines [get]
func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]medicineResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicineResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener medicamento
// @Tags medicines
// @Produce json
// @Param medicineID path string true "ID del medicamento"
// @Success 200 {object} medicineResponse
// @Failure 404 {object} apperr.Response
// @Router /medicines/{medicineID} [get]
func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Get(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

// @Summary Actualizar medicamento
// @Description Reemplaza nombre, unidad base y principios activos; mismas reglas que al crear.
// @Tags medicines
// @Accept json
// @Produce json
// @Param medicineID path string true "ID del medicamento"
// @Param payload body medicineRequest true "Medicamento completo"
// @Success 200 {object} medicineResponse
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Router /medicines/{medicineID} [put]
func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicineID"), req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

// @Summary Borrar medicamento
// @Description Rechaza con 409 si algún schedule o registro no programado lo referencia.
// @Tags medicines
// @Param medicineID path string true "ID del medicamento"
// @Success 204
// @Failure 404 {object} apperr.Response
// @Failure 409 {object} apperr.Response
// @Router /medicines/{medicineID} [delete]
func deleteMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req medicineRequest) toInput() Input {
	return Input{
		Name:              req.Name,
		BaseUnit:          req.BaseUnit,
		ActiveIngredients: req.ActiveIngredients,
	}
}

func toMedicineResponse(m Medicine) medicineResponse {
	ingredients := m.ActiveIngredients
	if ingredients == nil {
		ingredients = []ActiveIngredient{}
	}
	return medicineResponse{
		ID:                m.ID,
		Name:              m.Name,
		BaseUnit:          m.BaseUnit,
		ActiveIngredients: ingredients,
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), apperr.ToResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
