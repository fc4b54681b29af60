package reporting

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"therapy-track/internal/domain/intake"
	"therapy-track/internal/platform/apperr"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/reports/intake", intakeReportHandler(svc))
}

// @Summary Reporte de principios activos por día
// @Description Totales por día y principio activo. headers[0] es "Date", luego etiquetas en orden lexicográfico; filas por día descendente; "" sin toma.
// @Tags reports
// @Produce json
// @Param from query string false "Día inicial (YYYY-MM-DD)"
// @Param to query string false "Día final (YYYY-MM-DD)"
// @Success 200 {object} Table
// @Failure 400 {object} apperr.Response
// @Failure 422 {object} apperr.Response
// @Router /reports/intake [get]
func intakeReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := intake.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, err)
			return
		}

		table, err := svc.Table(r.Context(), rng)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
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
