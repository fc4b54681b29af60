package reporting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

// MaxLabelLength acota etiquetas patológicas (en runas).
const MaxLabelLength = 200

const DateHeader = "Date"

// cellDecimals acota el ruido de sumar floats (0.1+0.2) en las celdas.
const cellDecimals = 6

// Totals: día -> etiqueta de principio activo -> cantidad total.
type Totals map[calendar.Day]map[string]float64

// Label es "{name} [{unit}]" truncado a MaxLabelLength runas.
func Label(ai medicines.ActiveIngredient) string {
	label := fmt.Sprintf("%s [%s]", ai.Name, ai.Unit)
	runes := []rune(label)
	if len(runes) > MaxLabelLength {
		return string(runes[:MaxLabelLength])
	}
	return label
}

// Aggregate suma cantidades de principio activo por día. Programadas:
// cantidad de la dosis x cantidad por unidad base; no programadas: cantidad
// registrada x cantidad por unidad base. Referencias rotas son error.
func Aggregate(
	scheduled []intake.ScheduledRecord,
	unscheduled []intake.UnscheduledRecord,
	byID map[string]schedules.Schedule,
	catalog map[string]medicines.Medicine,
) (Totals, error) {
	out := Totals{}

	for _, rec := range scheduled {
		sch, ok := byID[rec.ScheduleID]
		if !ok {
			return nil, apperr.Reference("record %q references missing schedule %q", rec.ID, rec.ScheduleID)
		}
		dose, ok := sch.Dose(rec.DoseIndex)
		if !ok {
			return nil, apperr.Reference("record %q references missing dose %d of schedule %q", rec.ID, rec.DoseIndex, sch.ID)
		}
		med, ok := catalog[sch.MedicineID]
		if !ok {
			return nil, apperr.Reference("schedule %q references missing medicine %q", sch.ID, sch.MedicineID)
		}
		out.add(rec.Day, med, dose.Amount)
	}

	for _, rec := range unscheduled {
		med, ok := catalog[rec.MedicineID]
		if !ok {
			return nil, apperr.Reference("record %q references missing medicine %q", rec.ID, rec.MedicineID)
		}
		out.add(rec.Day, med, rec.Amount)
	}

	return out, nil
}

func (t Totals) add(day calendar.Day, med medicines.Medicine, amount float64) {
	row, ok := t[day]
	if !ok {
		row = map[string]float64{}
		t[day] = row
	}
	for _, ai := range med.ActiveIngredients {
		row[Label(ai)] += amount * ai.Amount
	}
}

// Labels devuelve todas las etiquetas presentes, en orden lexicográfico.
func (t Totals) Labels() []string {
	seen := map[string]struct{}{}
	for _, row := range t {
		for label := range row {
			seen[label] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Days en orden descendente.
func (t Totals) Days() []calendar.Day {
	out := make([]calendar.Day, 0, len(t))
	for d := range t {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

// Table es la salida tabular que consume la exportación CSV.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Table: headers[0] = "Date", luego etiquetas en orden lexicográfico; una fila
// por día en orden descendente; celdas decimales planas, "" sin toma.
func (t Totals) Table() Table {
	labels := t.Labels()
	table := Table{
		Headers: append([]string{DateHeader}, labels...),
		Rows:    make([][]string, 0, len(t)),
	}
	for _, day := range t.Days() {
		row := make([]string, 0, len(labels)+1)
		row = append(row, day.String())
		for _, label := range labels {
			v, ok := t[day][label]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatAmount(v))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// formatAmount: decimal plano con a lo sumo cellDecimals decimales, sin ceros finales.
func formatAmount(v float64) string {
	out := strconv.FormatFloat(v, 'f', cellDecimals, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	if out == "-0" {
		return "0"
	}
	return out
}
