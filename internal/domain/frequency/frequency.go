package frequency

import (
	"encoding/json"
	"fmt"
	"strings"

	"therapy-track/internal/platform/apperr"
)

type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
)

// Frequency es la representación persistida/externa (JSON en schedules.freq).
// Solo cinco combinaciones tienen sentido; ver Label.
type Frequency struct {
	IntervalUnit   IntervalUnit `json:"intervalUnit"`
	IntervalLength int          `json:"intervalLength"`
	NumberOfDoses  int          `json:"numberOfDoses"`
}

// Label es el menú cerrado de frecuencias soportadas.
type Label uint8

const (
	labelInvalid Label = iota
	OnceDaily
	TwiceDaily
	ThriceDaily
	Weekly
	Biweekly
)

// Labels devuelve el menú en orden de presentación.
func Labels() []Label {
	return []Label{OnceDaily, TwiceDaily, ThriceDaily, Weekly, Biweekly}
}

// Key es la clave estable que consume i18n / la API.
func (l Label) Key() string {
	switch l {
	case OnceDaily:
		return "once_daily"
	case TwiceDaily:
		return "twice_daily"
	case ThriceDaily:
		return "thrice_daily"
	case Weekly:
		return "weekly"
	case Biweekly:
		return "biweekly"
	default:
		return ""
	}
}

func (l Label) String() string { return l.Key() }

func (l Label) Valid() bool { return l >= OnceDaily && l <= Biweekly }

func ParseLabel(s string) (Label, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Labels() {
		if l.Key() == key {
			return l, nil
		}
	}
	return labelInvalid, apperr.New(apperr.CodeUnsupportedFrequency, fmt.Sprintf("unknown frequency label %q", s))
}

func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid frequency label %d", l)
	}
	return []byte(l.Key()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Classify mapea (unidad, longitud, dosis) a su etiqueta.
// Fuera del menú devuelve ErrUnsupportedFrequency; no hay valor por defecto.
func Classify(unit IntervalUnit, length, doses int) (Label, error) {
	switch {
	case unit == UnitDay && length == 1 && doses == 1:
		return OnceDaily, nil
	case unit == UnitDay && length == 1 && doses == 2:
		return TwiceDaily, nil
	case unit == UnitDay && length == 1 && doses == 3:
		return ThriceDaily, nil
	case unit == UnitWeek && length == 1 && doses == 1:
		return Weekly, nil
	case unit == UnitWeek && length == 2 && doses == 1:
		return Biweekly, nil
	}
	return labelInvalid, apperr.New(apperr.CodeUnsupportedFrequency,
		fmt.Sprintf("no frequency for unit=%s length=%d doses=%d", unit, length, doses))
}

// Expand es la inversa de Classify.
func Expand(l Label) (Frequency, error) {
	switch l {
	case OnceDaily:
		return Frequency{IntervalUnit: UnitDay, IntervalLength: 1, NumberOfDoses: 1}, nil
	case TwiceDaily:
		return Frequency{IntervalUnit: UnitDay, IntervalLength: 1, NumberOfDoses: 2}, nil
	case ThriceDaily:
		return Frequency{IntervalUnit: UnitDay, IntervalLength: 1, NumberOfDoses: 3}, nil
	case Weekly:
		return Frequency{IntervalUnit: UnitWeek, IntervalLength: 1, NumberOfDoses: 1}, nil
	case Biweekly:
		return Frequency{IntervalUnit: UnitWeek, IntervalLength: 2, NumberOfDoses: 1}, nil
	}
	return Frequency{}, apperr.New(apperr.CodeUnsupportedFrequency, fmt.Sprintf("invalid frequency label %d", l))
}

func (f Frequency) Label() (Label, error) {
	return Classify(f.IntervalUnit, f.IntervalLength, f.NumberOfDoses)
}

// Encode / Decode: formato JSON de la columna schedules.freq.
func (f Frequency) Encode() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding frequency: %w", err)
	}
	return string(b), nil
}

func Decode(raw string) (Frequency, error) {
	var f Frequency
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return Frequency{}, fmt.Errorf("decoding frequency: %w", err)
	}
	return f, nil
}
