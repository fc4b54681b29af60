package reminders

import "therapy-track/internal/domain/due"

// Transition es el cambio de completitud de un grupo causado por un toggle.
type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionCompleted
	TransitionReopened
)

func (t Transition) String() string {
	switch t {
	case TransitionCompleted:
		return "completed"
	case TransitionReopened:
		return "reopened"
	default:
		return "none"
	}
}

func (t Transition) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// IsGroupComplete: todas las dosis del grupo en el día están tomadas.
// Un grupo sin dosis ese día cuenta como completo.
func IsGroupComplete(set due.DueSet, groupKey string) bool {
	return set.ByGroup().Get(groupKey).Complete()
}

// Evaluate compara la completitud del grupo antes y después de un cambio.
func Evaluate(before, after due.DueSet, groupKey string) Transition {
	was, is := IsGroupComplete(before, groupKey), IsGroupComplete(after, groupKey)
	switch {
	case !was && is:
		return TransitionCompleted
	case was && !is:
		return TransitionReopened
	default:
		return TransitionNone
	}
}
