package reminders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/due"
	"therapy-track/internal/platform/apperr"
)

func RegisterRoutes(r chi.Router, svc *Service, today func() calendar.Day) {
	r.Post("/days/{day}/schedules/{scheduleID}/doses/{index}/toggle", toggleDoseHandler(svc, today))
	r.Get("/reminders", listArmedHandler(svc))
}

type armedResponse struct {
	GroupID string    `json:"group_id"`
	Name    string    `json:"name"`
	At      string    `json:"reminder_time"`
	Next    time.Time `json:"next"`
}

type toggleResponse struct {
	Done          bool       `json:"done"`
	RecordID      string     `json:"record_id,omitempty"`
	GroupID       *string    `json:"group_id"`
	GroupComplete bool       `json:"group_complete"`
	Transition    Transition `json:"transition" swaggertype:"string" enums:"none,completed,reopened"`
}

// @Summary Marcar/desmarcar dosis
// @Description Alterna la toma de (schedule, índice, día). Devuelve el nuevo estado y la transición del grupo; al completarse el grupo se suprime su recordatorio del día.
// @Tags days
// @Produce json
// @Param day path string true "YYYY-MM-DD o today"
// @Param scheduleID path string true "ID del schedule"
// @Param index path int true "Índice de la dosis"
// @Success 200 {object} toggleResponse
// @Failure 400 {object} apperr.Response
// @Failure 422 {object} apperr.Response "schedule o índice inexistente"
// @Router /days/{day}/schedules/{scheduleID}/doses/{index}/toggle [post]
func toggleDoseHandler(svc *Service, today func() calendar.Day) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := due.ParseDayParam(chi.URLParam(r, "day"), today)
		if err != nil {
			writeError(w, err)
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, apperr.Fields{"index": true}.Err())
			return
		}

		out, err := svc.ToggleScheduled(r.Context(), chi.URLParam(r, "scheduleID"), index, day)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toggleResponse{
			Done:          out.Done,
			RecordID:      out.RecordID,
			GroupID:       out.GroupID,
			GroupComplete: out.GroupComplete,
			Transition:    out.Transition,
		})
	}
}

// @Summary Recordatorios armados
// @Description Grupos con recordatorio programado y su próximo disparo, ordenados por disparo.
// @Tags reminders
// @Produce json
// @Success 200 {array} armedResponse
// @Failure 500 {object} apperr.Response
// @Router /reminders [get]
func listArmedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Armed(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]armedResponse, 0, len(list))
		for _, a := range list {
			out = append(out, armedResponse{GroupID: a.GroupID, Name: a.Name, At: a.At, Next: a.Next})
		}
		writeJSON(w, http.StatusOK, out)
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
