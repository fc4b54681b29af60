package schedules

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/platform/apperr"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/schedules", func(sr chi.Router) {
		sr.Post("/", createScheduleHandler(svc))
		sr.Get("/", listSchedulesHandler(svc))
		sr.Get("/{scheduleID}", getScheduleHandler(svc))
		sr.Patch("/{scheduleID}", updateScheduleDatesHandler(svc))
		sr.Delete("/{scheduleID}", deleteScheduleHandler(svc))
	})
}

type doseRequest struct {
	Amount  float64 `json:"amount"`
	Offset  *int    `json:"offset"`
	GroupID *string `json:"group_id"`
}

type inlineMedicineRequest struct {
	Name              string                       `json:"name"`
	BaseUnit          string                       `json:"base_unit"`
	ActiveIngredients []medicines.ActiveIngredient `json:"active_ingredients"`
}

type createScheduleRequest struct {
	MedicineID string `json:"medicine_id"`
	// Medicine: si viene, se crea el medicamento y luego el schedule.
	Medicine  *inlineMedicineRequest `json:"medicine,omitempty"`
	StartDate calendar.Day           `json:"start_date" swaggertype:"string" example:"2024-01-01"`
	EndDate   *calendar.Day          `json:"end_date" swaggertype:"string" example:"2024-01-10"`
	Frequency string                 `json:"frequency" example:"twice_daily"`
	Doses     []doseRequest          `json:"doses"`
}

type doseResponse struct {
	Index   int     `json:"index"`
	Amount  float64 `json:"amount"`
	Offset  *int    `json:"offset"`
	GroupID *string `json:"group_id"`
}

type scheduleResponse struct {
	ID          string              `json:"id"`
	MedicineID  string              `json:"medicine_id"`
	StartDate   calendar.Day        `json:"start_date" swaggertype:"string"`
	EndDate     *calendar.Day       `json:"end_date" swaggertype:"string"`
	Frequency   string              `json:"frequency"`
	FrequencyOf frequency.Frequency `json:"freq"`
	Doses       []doseResponse      `json:"doses"`
}

type createScheduleResponse struct {
	Schedule scheduleResponse `json:"schedule"`
	// MedicineID del medicamento creado en línea (vacío si no se creó).
	CreatedMedicineID string `json:"created_medicine_id,omitempty"`
}

// @Summary Crear schedule
// @Description Crea un schedule desde una etiqueta de frecuencia. Con "medicine" en el body crea antes el medicamento (sin rollback si falla el segundo paso).
// @Tags schedules
// @Accept json
// @Produce json
// @Param payload body createScheduleRequest true "Schedule"
// @Success 201 {object} createScheduleResponse
// @Failure 400 {object} apperr.Response
// @Failure 422 {object} apperr.Response "medicamento o grupo inexistente"
// @Router /schedules [post]
func createScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var label frequency.Label
		if strings.TrimSpace(req.Frequency) != "" {
			l, err := frequency.ParseLabel(req.Frequency)
			if err != nil {
				writeError(w, err)
				return
			}
			label = l
		}

		in := Input{
			MedicineID: req.MedicineID,
			Start:      req.StartDate,
			End:        req.EndDate,
			Frequency:  label,
			Doses:      make([]DoseInput, 0, len(req.Doses)),
		}
		for _, d := range req.Doses {
			in.Doses = append(in.Doses, DoseInput{Amount: d.Amount, Offset: d.Offset, GroupID: d.GroupID})
		}

		if req.Medicine != nil {
			m, sch, err := svc.CreateWithMedicine(r.Context(), medicines.Input{
				Name:              req.Medicine.Name,
				BaseUnit:          req.Medicine.BaseUnit,
				ActiveIngredients: req.Medicine.ActiveIngredients,
			}, in)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, createScheduleResponse{
				Schedule:          toScheduleResponse(sch),
				CreatedMedicineID: m.ID,
			})
			return
		}

		sch, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createScheduleResponse{Schedule: toScheduleResponse(sch)})
	}
}

// @Summary Listar schedules
// @Tags schedules
// @Produce json
// @Success 200 {array} scheduleResponse
// @Router /schedules [get]
func listSchedulesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]scheduleResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toScheduleResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener schedule
// @Tags schedules
// @Produce json
// @Param scheduleID path string true "ID del schedule"
// @Success 200 {object} scheduleResponse
// @Failure 404 {object} apperr.Response
// @Router /schedules/{scheduleID} [get]
func getScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Get(r.Context(), chi.URLParam(r, "scheduleID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(s))
	}
}

// @Summary Editar fechas del schedule
// @Description Solo start_date y end_date. end_date: null quita el fin; omitirlo lo deja igual.
// @Tags schedules
// @Accept json
// @Produce json
// @Param scheduleID path string true "ID del schedule"
// @Param payload body object true "{start_date, end_date}"
// @Success 200 {object} scheduleResponse
// @Failure 400 {object} apperr.Response
// @Failure 404 {object} apperr.Response
// @Router /schedules/{scheduleID} [patch]
func updateScheduleDatesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "scheduleID")

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		// Mapa crudo para distinguir end_date ausente de end_date: null.
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		for k := range raw {
			if k != "start_date" && k != "end_date" {
				http.Error(w, "only start_date and end_date can be patched", http.StatusBadRequest)
				return
			}
		}

		current, err := svc.Get(r.Context(), scheduleID)
		if err != nil {
			writeError(w, err)
			return
		}

		start := current.Start
		if v, ok := raw["start_date"]; ok {
			if err := json.Unmarshal(v, &start); err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}

		end := current.End
		if v, ok := raw["end_date"]; ok {
			end = nil
			if string(v) != "null" {
				var d calendar.Day
				if err := json.Unmarshal(v, &d); err != nil {
					http.Error(w, "end_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				end = &d
			}
		}

		updated, err := svc.UpdateDates(r.Context(), scheduleID, start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(updated))
	}
}

// @Summary Borrar schedule
// @Description Borra en cascada sus dosis y registros de toma.
// @Tags schedules
// @Param scheduleID path string true "ID del schedule"
// @Success 204
// @Failure 404 {object} apperr.Response
// @Router /schedules/{scheduleID} [delete]
func deleteScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toScheduleResponse(s Schedule) scheduleResponse {
	label := ""
	if l, err := s.Frequency.Label(); err == nil {
		label = l.Key()
	}

	doses := make([]doseResponse, 0, len(s.Doses))
	for _, d := range s.Doses {
		doses = append(doses, doseResponse{Index: d.Index, Amount: d.Amount, Offset: d.Offset, GroupID: d.GroupID})
	}
	return scheduleResponse{
		ID:          s.ID,
		MedicineID:  s.MedicineID,
		StartDate:   s.Start,
		EndDate:     s.End,
		Frequency:   label,
		FrequencyOf: s.Frequency,
		Doses:       doses,
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
