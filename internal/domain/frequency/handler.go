package frequency

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Get("/frequencies", listFrequenciesHandler())
}

type menuEntry struct {
	Label          string       `json:"label" example:"twice_daily"`
	IntervalUnit   IntervalUnit `json:"interval_unit" swaggertype:"string" example:"day"`
	IntervalLength int          `json:"interval_length" example:"1"`
	NumberOfDoses  int          `json:"number_of_doses" example:"2"`
}

// @Summary Menú de frecuencias
// @Description Las cinco etiquetas soportadas con su expansión (unidad, largo, dosis).
// @Tags frequencies
// @Produce json
// @Success 200 {array} menuEntry
// @Router /frequencies [get]
func listFrequenciesHandler() http.HandlerFunc {
	labels := Labels()
	menu := make([]menuEntry, 0, len(labels))
	for _, l := range labels {
		f, err := Expand(l)
		if err != nil {
			continue
		}
		menu = append(menu, menuEntry{
			Label:          l.Key(),
			IntervalUnit:   f.IntervalUnit,
			IntervalLength: f.IntervalLength,
			NumberOfDoses:  f.NumberOfDoses,
		})
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(menu)
	}
}
