package intake

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/platform/apperr"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/intakes", func(ir chi.Router) {
		ir.Get("/", listIntakesHandler(svc))
		ir.Post("/unscheduled", recordUnscheduledHandler(svc))
		ir.Delete("/unscheduled/{recordID}", deleteUnscheduledHandler(svc))
	})
}

type unscheduledRequest struct {
	MedicineID string       `json:"medicine_id"`
	Amount     float64      `json:"amount"`
	Day        calendar.Day `json:"day" swaggertype:"string" example:"2024-01-05"`
	GroupID    *string      `json:"group_id"`
}

type unscheduledResponse struct {
	ID         string       `json:"id"`
	MedicineID string       `json:"medicine_id"`
	Amount     float64      `json:"amount"`
	Day        calendar.Day `json:"day" swaggertype:"string"`
	RecordedAt time.Time    `json:"record_date"`
	GroupID    *string      `json:"group_id"`
}

type scheduledResponse struct {
	ID         string       `json:"id"`
	ScheduleID string       `json:"schedule_id"`
	DoseIndex  int          `json:"dose_index"`
	Day        calendar.Day `json:"day" swaggertype:"string"`
	RecordedAt time.Time    `json:"record_date"`
}

type intakesResponse struct {
	Scheduled   []scheduledResponse   `json:"scheduled"`
	Unscheduled []unscheduledResponse `json:"unscheduled"`
}

// @Summary Registrar toma no programada
// @Description Siempre inserta un registro nuevo; varios por día y medicamento están permitidos.
// @Tags intakes
// @Accept json
// @Produce json
// @Param payload body unscheduledRequest true "Toma puntual"
// @Success 201 {object} unscheduledResponse
// @Failure 400 {object} apperr.Response
// @Failure 422 {object} apperr.Response
// @Router /intakes/unscheduled [post]
func recordUnscheduledHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req unscheduledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.RecordUnscheduled(r.Context(), UnscheduledInput{
			MedicineID: req.MedicineID,
			Amount:     req.Amount,
			Day:        req.Day,
			GroupID:    req.GroupID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUnscheduledResponse(rec))
	}
}

// @Summary Borrar toma no programada
// @Tags intakes
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} apperr.Response
// @Router /intakes/unscheduled/{recordID} [delete]
func deleteUnscheduledHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteUnscheduled(r.Context(), chi.URLParam(r, "recordID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Listar registros de toma
// @Description Ambos extremos son opcionales e inclusivos (YYYY-MM-DD).
// @Tags intakes
// @Produce json
// @Param from query string false "Día inicial"
// @Param to query string false "Día final"
// @Success 200 {object} intakesResponse
// @Failure 400 {object} apperr.Response
// @Router /intakes [get]
func listIntakesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, err)
			return
		}

		recs, err := svc.QueryByRange(r.Context(), rng)
		if err != nil {
			writeError(w, err)
			return
		}

		out := intakesResponse{
			Scheduled:   make([]scheduledResponse, 0, len(recs.Scheduled)),
			Unscheduled: make([]unscheduledResponse, 0, len(recs.Unscheduled)),
		}
		for _, s := range recs.Scheduled {
			out.Scheduled = append(out.Scheduled, scheduledResponse{
				ID:         s.ID,
				ScheduleID: s.ScheduleID,
				DoseIndex:  s.DoseIndex,
				Day:        s.Day,
				RecordedAt: s.RecordedAt,
			})
		}
		for _, u := range recs.Unscheduled {
			out.Unscheduled = append(out.Unscheduled, toUnscheduledResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ParseRange lee ?from=&to= (vacío = sin cota).
func ParseRange(from, to string) (Range, error) {
	var rng Range
	f := apperr.Fields{}
	if strings.TrimSpace(from) != "" {
		d, err := calendar.Parse(from)
		f.Check("from", err == nil)
		rng.From = &d
	}
	if strings.TrimSpace(to) != "" {
		d, err := calendar.Parse(to)
		f.Check("to", err == nil)
		rng.To = &d
	}
	if err := f.Err(); err != nil {
		return Range{}, err
	}
	return rng, nil
}

func toUnscheduledResponse(u UnscheduledRecord) unscheduledResponse {
	return unscheduledResponse{
		ID:         u.ID,
		MedicineID: u.MedicineID,
		Amount:     u.Amount,
		Day:        u.Day,
		RecordedAt: u.RecordedAt,
		GroupID:    u.GroupID,
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
