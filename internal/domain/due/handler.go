package due

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/platform/apperr"
)

type GroupLister interface {
	List(ctx context.Context) ([]groups.Group, error)
}

func RegisterRoutes(r chi.Router, svc *Service, grps GroupLister) {
	r.Get("/days/{day}", getDayHandler(svc, grps))
}

type dueDoseResponse struct {
	MedicineID   string             `json:"medicine_id"`
	MedicineName string             `json:"medicine_name"`
	BaseUnit     medicines.BaseUnit `json:"base_unit"`
	Amount       float64            `json:"amount"`
	DoseIndex    *int               `json:"dose_index,omitempty"`
	ScheduleID   string             `json:"schedule_id,omitempty"`
	RecordID     string             `json:"record_id,omitempty"`
	IsDone       bool               `json:"is_done"`
}

type bucketResponse struct {
	GroupID     *string           `json:"group_id"`
	Name        string            `json:"name"`
	Complete    bool              `json:"complete"`
	Pending     int               `json:"pending"`
	Scheduled   []dueDoseResponse `json:"scheduled"`
	Unscheduled []dueDoseResponse `json:"unscheduled"`
}

type dayResponse struct {
	Day    calendar.Day     `json:"day" swaggertype:"string"`
	Groups []bucketResponse `json:"groups"`
}

// @Summary Dosis del día
// @Description Dosis programadas activas ese día y tomas puntuales, particionadas por grupo. {day} acepta YYYY-MM-DD o "today".
// @Tags days
// @Produce json
// @Param day path string true "YYYY-MM-DD o today"
// @Success 200 {object} dayResponse
// @Failure 400 {object} apperr.Response
// @Failure 422 {object} apperr.Response "schedule con medicamento inexistente"
// @Router /days/{day} [get]
func getDayHandler(svc *Service, grps GroupLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := ParseDayParam(chi.URLParam(r, "day"), svc.Today)
		if err != nil {
			writeError(w, err)
			return
		}

		set, err := svc.On(r.Context(), day)
		if err != nil {
			writeError(w, err)
			return
		}

		names := map[string]string{}
		if grps != nil {
			list, err := grps.List(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			for _, g := range list {
				names[g.ID] = g.Name
			}
		}

		buckets := set.ByGroup()
		out := dayResponse{Day: set.Day, Groups: make([]bucketResponse, 0, len(buckets))}
		for _, key := range buckets.Keys() {
			b := buckets.Get(key)
			br := bucketResponse{
				Name:        names[key],
				Complete:    b.Complete(),
				Pending:     b.Pending(),
				Scheduled:   toDoseResponses(b.Scheduled),
				Unscheduled: toDoseResponses(b.Unscheduled),
			}
			if key != Ungrouped {
				id := key
				br.GroupID = &id
			}
			out.Groups = append(out.Groups, br)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ParseDayParam acepta "today" (día local) o YYYY-MM-DD.
func ParseDayParam(raw string, today func() calendar.Day) (calendar.Day, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "today") {
		return today(), nil
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		return calendar.Day{}, apperr.Fields{"day": true}.Err()
	}
	return d, nil
}

func toDoseResponses(in []DueDose) []dueDoseResponse {
	out := make([]dueDoseResponse, 0, len(in))
	for _, d := range in {
		dr := dueDoseResponse{
			MedicineID:   d.MedicineID,
			MedicineName: d.MedicineName,
			BaseUnit:     d.BaseUnit,
			Amount:       d.Amount,
			ScheduleID:   d.ScheduleID,
			RecordID:     d.RecordID,
			IsDone:       d.IsDone,
		}
		if d.Scheduled {
			idx := d.DoseIndex
			dr.DoseIndex = &idx
		}
		out = append(out, dr)
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), apperr.ToResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
