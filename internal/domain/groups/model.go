package groups

// Group agrupa dosis (p.ej. "Mañana") y opcionalmente lleva un recordatorio diario.
type Group struct {
	ID           string
	Name         string
	Color        string  // #RRGGBB o #RRGGBBAA
	ReminderOn   bool
	ReminderTime *string // "HH:MM"; obligatorio sii ReminderOn
}

// HourMinute parsea ReminderTime. ok=false si el grupo no tiene hora.
func (g Group) HourMinute() (hour, minute int, ok bool) {
	if g.ReminderTime == nil {
		return 0, 0, false
	}
	h, m, err := parseClock(*g.ReminderTime)
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}
