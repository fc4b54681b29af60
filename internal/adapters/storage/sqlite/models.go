package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
)

// Las tablas conservan los nombres y columnas del esquema persistido
// (index_, offset, group_) para que una base existente siga siendo legible.

type medicineRow struct {
	ID                string `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	BaseUnit          string `gorm:"not null"`
	ActiveIngredients string `gorm:"not null"` // JSON
	CreatedAt         time.Time
}

func (medicineRow) TableName() string { return "medicines" }

type groupRow struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Color        string `gorm:"not null"`
	IsReminderOn bool   `gorm:"column:is_reminder_on;not null;default:false"`
	ReminderTime *string
	CreatedAt    time.Time
}

func (groupRow) TableName() string { return "groups" }

type scheduleRow struct {
	ID        string  `gorm:"primaryKey"`
	Medicine  string  `gorm:"not null;index"`
	StartDate string  `gorm:"not null"`
	EndDate   *string // NULL = sin fin
	Freq      string  `gorm:"not null"` // JSON
	CreatedAt time.Time
}

func (scheduleRow) TableName() string { return "schedules" }

type doseRow struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	Amount   float64 `gorm:"not null"`
	Index    int     `gorm:"column:index_;not null"`
	Offset   *int    `gorm:"column:offset"`
	Group    *string `gorm:"column:group_;index"`
	Schedule string  `gorm:"not null;index"`
}

func (doseRow) TableName() string { return "doses" }

type scheduledRecordRow struct {
	ID         string    `gorm:"primaryKey"`
	RecordDate time.Time `gorm:"not null"`
	Date       string    `gorm:"not null;uniqueIndex:scheduled_dosage_records_key,priority:3"`
	Schedule   string    `gorm:"not null;uniqueIndex:scheduled_dosage_records_key,priority:1"`
	DoseIndex  int       `gorm:"not null;uniqueIndex:scheduled_dosage_records_key,priority:2"`
}

func (scheduledRecordRow) TableName() string { return "scheduled_dosage_records" }

type unscheduledRecordRow struct {
	ID         string    `gorm:"primaryKey"`
	RecordDate time.Time `gorm:"not null"`
	Date       string    `gorm:"not null;index"`
	Medicine   string    `gorm:"not null;index"`
	DoseAmount float64   `gorm:"not null"`
	Group      *string   `gorm:"column:group_;index"`
	CreatedAt  time.Time
}

func (unscheduledRecordRow) TableName() string { return "unscheduled_dosage_records" }

func toMedicineRow(m medicines.Medicine) (medicineRow, error) {
	ai := m.ActiveIngredients
	if ai == nil {
		ai = []medicines.ActiveIngredient{}
	}
	b, err := json.Marshal(ai)
	if err != nil {
		return medicineRow{}, fmt.Errorf("encoding active_ingredients: %w", err)
	}
	return medicineRow{ID: m.ID, Name: m.Name, BaseUnit: string(m.BaseUnit), ActiveIngredients: string(b)}, nil
}

func (r medicineRow) toDomain() (medicines.Medicine, error) {
	m := medicines.Medicine{ID: r.ID, Name: r.Name, BaseUnit: medicines.BaseUnit(r.BaseUnit)}
	if r.ActiveIngredients != "" {
		if err := json.Unmarshal([]byte(r.ActiveIngredients), &m.ActiveIngredients); err != nil {
			return medicines.Medicine{}, fmt.Errorf("decoding active_ingredients of %s: %w", r.ID, err)
		}
	}
	return m, nil
}

func toGroupRow(g groups.Group) groupRow {
	return groupRow{ID: g.ID, Name: g.Name, Color: g.Color, IsReminderOn: g.ReminderOn, ReminderTime: g.ReminderTime}
}

func (r groupRow) toDomain() groups.Group {
	return groups.Group{ID: r.ID, Name: r.Name, Color: r.Color, ReminderOn: r.IsReminderOn, ReminderTime: r.ReminderTime}
}

func toScheduleRow(s schedules.Schedule) (scheduleRow, []doseRow, error) {
	freq, err := s.Frequency.Encode()
	if err != nil {
		return scheduleRow{}, nil, err
	}
	row := scheduleRow{
		ID:        s.ID,
		Medicine:  s.MedicineID,
		StartDate: s.Start.String(),
		EndDate:   dayPtrString(s.End),
		Freq:      freq,
	}
	doses := make([]doseRow, 0, len(s.Doses))
	for _, d := range s.Doses {
		doses = append(doses, doseRow{Amount: d.Amount, Index: d.Index, Offset: d.Offset, Group: d.GroupID, Schedule: s.ID})
	}
	return row, doses, nil
}

func (r scheduleRow) toDomain(doses []doseRow) (schedules.Schedule, error) {
	start, err := calendar.Parse(r.StartDate)
	if err != nil {
		return schedules.Schedule{}, err
	}
	end, err := parseDayPtr(r.EndDate)
	if err != nil {
		return schedules.Schedule{}, err
	}
	freq, err := frequency.Decode(r.Freq)
	if err != nil {
		return schedules.Schedule{}, err
	}
	s := schedules.Schedule{ID: r.ID, MedicineID: r.Medicine, Start: start, End: end, Frequency: freq}
	for _, d := range doses {
		s.Doses = append(s.Doses, schedules.Dose{Amount: d.Amount, Index: d.Index, Offset: d.Offset, GroupID: d.Group})
	}
	return s, nil
}

func (r scheduledRecordRow) toDomain() (intake.ScheduledRecord, error) {
	day, err := calendar.Parse(r.Date)
	if err != nil {
		return intake.ScheduledRecord{}, err
	}
	return intake.ScheduledRecord{ID: r.ID, ScheduleID: r.Schedule, DoseIndex: r.DoseIndex, Day: day, RecordedAt: r.RecordDate}, nil
}

func (r unscheduledRecordRow) toDomain() (intake.UnscheduledRecord, error) {
	day, err := calendar.Parse(r.Date)
	if err != nil {
		return intake.UnscheduledRecord{}, err
	}
	return intake.UnscheduledRecord{
		ID: r.ID, MedicineID: r.Medicine, Amount: r.DoseAmount, Day: day, RecordedAt: r.RecordDate, GroupID: r.Group,
	}, nil
}

func dayPtrString(d *calendar.Day) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDayPtr(s *string) (*calendar.Day, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := calendar.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
