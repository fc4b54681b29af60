package groups

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/platform/apperr"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/groups", func(gr chi.Router) {
		gr.Post("/", createGroupHandler(svc))
		gr.Get("/", listGroupsHandler(svc))
		gr.Get("/{groupID}", getGroupHandler(svc))
		gr.Put("/{groupID}", updateGroupHandler(svc))
		gr.Delete("/{groupID}", deleteGroupHandler(svc))
	})
}

type groupRequest struct {
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	ReminderOn   bool    `json:"is_reminder_on"`
	ReminderTime *string `json:"reminder_time"` // HH:MM
}

type groupResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	ReminderOn   bool    `json:"is_reminder_on"`
	ReminderTime *string `json:"reminder_time"`
}

// @Summary Crear grupo
// @Description Con is_reminder_on=true, reminder_time (HH:MM) es obligatorio y se programa el recordatorio diario.
// @Tags groups
// @Accept json
// @Produce json
// @Param payload body groupRequest true "Grupo"
// @Success 201 {object} groupResponse
// @Failure 400 {object} apperr.Response
// @Router /groups [post]
func createGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGroupResponse(g))
	}
}

// @Summary Listar grupos
// @Tags groups
// @Produce json
// @Success 200 {array} groupResponse
// @Router /groups [get]
func listGroupsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]groupResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGroupResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener grupo
// @Tags groups
// @Produce json
// @Param groupID path string true "ID del grupo"
// @Success 200 {object} groupResponse
// @Failure 404 {object} apperr.Response
// @Router /groups/{groupID} [get]
func getGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := svc.Get(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGroupResponse(g))
	}
}

// @Summary Actualizar grupo
// @Tags groups
// @Accept json
// @Produce json
// @Param groupID path string true "ID del grupo"
// @Param payload body groupRequest true "Grupo"
// @Success 200 {object} groupResponse
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Router /groups/{groupID} [put]
func updateGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Update(r.Context(), chi.URLParam(r, "groupID"), req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGroupResponse(g))
	}
}

// @Summary Borrar grupo
// @Description Rechaza con 409 si alguna dosis o registro no programado lo referencia.
// @Tags groups
// @Param groupID path string true "ID del grupo"
// @Success 204
// @Failure 404 {object} apperr.Response
// @Failure 409 {object} apperr.Response
// @Router /groups/{groupID} [delete]
func deleteGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req groupRequest) toInput() Input {
	return Input{
		Name:         req.Name,
		Color:        req.Color,
		ReminderOn:   req.ReminderOn,
		ReminderTime: req.ReminderTime,
	}
}

func toGroupResponse(g Group) groupResponse {
	return groupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Color:        g.Color,
		ReminderOn:   g.ReminderOn,
		ReminderTime: g.ReminderTime,
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
