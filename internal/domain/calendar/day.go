// Package calendar define el día de calendario (año/mes/día, sin hora ni zona)
// sobre el que se hacen todas las comparaciones de agenda y registros.
package calendar

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Day es un valor inmutable y comparable (==, clave de map).
// El cero (Day{}) representa "sin día".
type Day struct {
	year  int
	month time.Month
	day   int
}

func New(year int, month time.Month, day int) Day {
	// Normaliza desbordes (p.ej. 31 de abril -> 1 de mayo) igual que time.Date.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Of es la única conversión timestamp -> día: usa el reloj de pared en la zona de t.
// Para "hoy" del usuario, pasar la hora ya convertida a su zona (t.In(loc)).
func Of(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// Today devuelve el día local en loc (nil = time.Local).
func Today(now time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return Of(now.In(loc))
}

// Parse acepta YYYY-MM-DD o un timestamp RFC3339 legado. El timestamp se
// reduce con su propio offset, no con la zona configurada: 23:30-05:00 sigue
// siendo ese día aunque en UTC ya sea el siguiente.
func Parse(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(Layout) {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return Of(t), nil
		}
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid calendar day %q: %w", s, err)
	}
	return Of(t), nil
}

func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) IsZero() bool { return d == Day{} }

func (d Day) Year() int         { return d.year }
func (d Day) Month() time.Month { return d.month }
func (d Day) DayOfMonth() int   { return d.day }

// Time devuelve la medianoche del día en loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// At combina el día con una hora de reloj en loc.
func (d Day) At(hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, hour, minute, 0, 0, loc)
}

func (d Day) AddDays(n int) Day {
	return New(d.year, d.month, d.day+n)
}

// Compare devuelve -1, 0 o 1.
func (d Day) Compare(o Day) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d Day) Before(o Day) bool { return d.Compare(o) < 0 }
func (d Day) After(o Day) bool  { return d.Compare(o) > 0 }

// Between es inclusivo en ambos extremos; un extremo nil no acota.
func (d Day) Between(from, to *Day) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value guarda el día como texto YYYY-MM-DD (sqlite TEXT, postgres DATE).
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan acepta lo que devuelven los drivers: time.Time (postgres DATE) o texto.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case time.Time:
		// DATE llega como medianoche UTC: tomar los componentes sin convertir de zona.
		*d = Of(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	default:
		return fmt.Errorf("calendar.Day: cannot scan %T", src)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
