package sqlite

import (
	"context"

	"gorm.io/gorm"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

// ---------- medicines ----------

type MedicinesRepo struct {
	db *gorm.DB
}

func NewMedicinesRepo(db *gorm.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	row, err := toMedicineRow(m)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	row, err := toMedicineRow(m)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&medicineRow{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":               row.Name,
		"base_unit":          row.BaseUnit,
		"active_ingredients": row.ActiveIngredients,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("medicine", m.ID)
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	var row medicineRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return medicines.Medicine{}, notFound(err, "medicine", id)
	}
	return row.toDomain()
}

func (r *MedicinesRepo) List(ctx context.Context) ([]medicines.Medicine, error) {
	var rows []medicineRow
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]medicines.Medicine, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&medicineRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("medicine", id)
	}
	return nil
}

func (r *MedicinesRepo) InUse(ctx context.Context, id string) (bool, error) {
	db := r.db.WithContext(ctx)
	if used, err := exists(db, &scheduleRow{}, "medicine = ?", id); err != nil || used {
		return used, err
	}
	return exists(db, &unscheduledRecordRow{}, "medicine = ?", id)
}

// ---------- groups ----------

type GroupsRepo struct {
	db *gorm.DB
}

func NewGroupsRepo(db *gorm.DB) *GroupsRepo {
	return &GroupsRepo{db: db}
}

func (r *GroupsRepo) Create(ctx context.Context, g groups.Group) error {
	row := toGroupRow(g)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GroupsRepo) Update(ctx context.Context, g groups.Group) error {
	row := toGroupRow(g)
	res := r.db.WithContext(ctx).Model(&groupRow{}).Where("id = ?", g.ID).Updates(map[string]any{
		"name":           row.Name,
		"color":          row.Color,
		"is_reminder_on": row.IsReminderOn,
		"reminder_time":  row.ReminderTime,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("group", g.ID)
	}
	return nil
}

func (r *GroupsRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	var row groupRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return groups.Group{}, notFound(err, "group", id)
	}
	return row.toDomain(), nil
}

func (r *GroupsRepo) List(ctx context.Context) ([]groups.Group, error) {
	var rows []groupRow
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]groups.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GroupsRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&groupRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("group", id)
	}
	return nil
}

func (r *GroupsRepo) InUse(ctx context.Context, id string) (bool, error) {
	db := r.db.WithContext(ctx)
	if used, err := exists(db, &doseRow{}, "group_ = ?", id); err != nil || used {
		return used, err
	}
	return exists(db, &unscheduledRecordRow{}, "group_ = ?", id)
}

// ---------- schedules ----------

type SchedulesRepo struct {
	db *gorm.DB
}

func NewSchedulesRepo(db *gorm.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

func (r *SchedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	row, doses, err := toScheduleRow(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(doses) == 0 {
			return nil
		}
		return tx.Create(&doses).Error
	})
}

func (r *SchedulesRepo) UpdateDates(ctx context.Context, id string, start calendar.Day, end *calendar.Day) error {
	res := r.db.WithContext(ctx).Model(&scheduleRow{}).Where("id = ?", id).Updates(map[string]any{
		"start_date": start.String(),
		"end_date":   dayPtrString(end),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("schedule", id)
	}
	return nil
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	db := r.db.WithContext(ctx)

	var row scheduleRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		return schedules.Schedule{}, notFound(err, "schedule", id)
	}
	var doses []doseRow
	if err := db.Where("schedule = ?", id).Order("index_ ASC").Find(&doses).Error; err != nil {
		return schedules.Schedule{}, err
	}
	return row.toDomain(doses)
}

func (r *SchedulesRepo) List(ctx context.Context) ([]schedules.Schedule, error) {
	db := r.db.WithContext(ctx)

	var rows []scheduleRow
	if err := db.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	var doses []doseRow
	if err := db.Order("schedule ASC, index_ ASC").Find(&doses).Error; err != nil {
		return nil, err
	}
	bySchedule := make(map[string][]doseRow, len(rows))
	for _, d := range doses {
		bySchedule[d.Schedule] = append(bySchedule[d.Schedule], d)
	}

	out := make([]schedules.Schedule, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain(bySchedule[row.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Delete: registros programados, dosis y schedule en una sola transacción.
func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule = ?", id).Delete(&scheduledRecordRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("schedule = ?", id).Delete(&doseRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&scheduleRow{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("schedule", id)
		}
		return nil
	})
}

// ---------- intake ----------

type IntakeRepo struct {
	db *gorm.DB
}

func NewIntakeRepo(db *gorm.DB) *IntakeRepo {
	return &IntakeRepo{db: db}
}

func (r *IntakeRepo) ToggleScheduled(ctx context.Context, rec intake.ScheduledRecord) (intake.ToggleResult, error) {
	var out intake.ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("schedule = ? AND dose_index = ? AND date = ?", rec.ScheduleID, rec.DoseIndex, rec.Day.String()).
			Delete(&scheduledRecordRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			out = intake.ToggleResult{Done: false}
			return nil
		}

		row := scheduledRecordRow{
			ID:         rec.ID,
			RecordDate: rec.RecordedAt,
			Date:       rec.Day.String(),
			Schedule:   rec.ScheduleID,
			DoseIndex:  rec.DoseIndex,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		out = intake.ToggleResult{Done: true, RecordID: row.ID}
		return nil
	})
	return out, err
}

func (r *IntakeRepo) ListScheduled(ctx context.Context, rng intake.Range) ([]intake.ScheduledRecord, error) {
	var rows []scheduledRecordRow
	q := withRange(r.db.WithContext(ctx), rng).Order("date ASC, schedule ASC, dose_index ASC")
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]intake.ScheduledRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *IntakeRepo) CreateUnscheduled(ctx context.Context, rec intake.UnscheduledRecord) error {
	row := unscheduledRecordRow{
		ID:         rec.ID,
		RecordDate: rec.RecordedAt,
		Date:       rec.Day.String(),
		Medicine:   rec.MedicineID,
		DoseAmount: rec.Amount,
		Group:      rec.GroupID,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *IntakeRepo) DeleteUnscheduled(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&unscheduledRecordRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("unscheduled record", id)
	}
	return nil
}

func (r *IntakeRepo) ListUnscheduled(ctx context.Context, rng intake.Range) ([]intake.UnscheduledRecord, error) {
	var rows []unscheduledRecordRow
	q := withRange(r.db.WithContext(ctx), rng).Order("created_at ASC, id ASC")
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]intake.UnscheduledRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// withRange: las fechas se guardan como YYYY-MM-DD, el orden de texto es el de calendario.
func withRange(q *gorm.DB, rng intake.Range) *gorm.DB {
	if rng.From != nil {
		q = q.Where("date >= ?", rng.From.String())
	}
	if rng.To != nil {
		q = q.Where("date <= ?", rng.To.String())
	}
	return q
}

func exists(db *gorm.DB, model any, cond string, args ...any) (bool, error) {
	var n int64
	if err := db.Model(model).Where(cond, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
