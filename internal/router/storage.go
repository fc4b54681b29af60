package router

import (
	"context"
	"fmt"

	mem "therapy-track/internal/adapters/storage/memory"
	pg "therapy-track/internal/adapters/storage/postgres"
	lite "therapy-track/internal/adapters/storage/sqlite"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/config"
	"therapy-track/internal/platform/logger"
)

// Storage agrupa los repos de un mismo backend.
type Storage struct {
	Medicines medicines.Repository
	Groups    groups.Repository
	Schedules schedules.Repository
	Intake    intake.Repository

	// Close libera el backend (nil-safe).
	Close func() error
}

func MemoryStorage() Storage {
	db := mem.NewDB()
	return Storage{
		Medicines: mem.NewMedicineRepo(db),
		Groups:    mem.NewGroupRepo(db),
		Schedules: mem.NewScheduleRepo(db),
		Intake:    mem.NewIntakeRepo(db),
		Close:     func() error { return nil },
	}
}

// OpenStorage abre el backend que indica cfg.Driver y aplica el esquema.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return MemoryStorage(), nil

	case config.DriverPostgres:
		db, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			return Storage{}, fmt.Errorf("opening postgres: %w", err)
		}
		if err := pg.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return Storage{}, fmt.Errorf("migrating postgres: %w", err)
		}
		return Storage{
			Medicines: pg.NewMedicinesRepo(db),
			Groups:    pg.NewGroupsRepo(db),
			Schedules: pg.NewSchedulesRepo(db),
			Intake:    pg.NewIntakeRepo(db),
			Close:     db.Close,
		}, nil

	case config.DriverSQLite, "":
		db, err := lite.Open(cfg.SQLitePath)
		if err != nil {
			return Storage{}, err
		}
		return Storage{
			Medicines: lite.NewMedicinesRepo(db),
			Groups:    lite.NewGroupsRepo(db),
			Schedules: lite.NewSchedulesRepo(db),
			Intake:    lite.NewIntakeRepo(db),
			Close:     func() error { return lite.Close(db) },
		}, nil
	}
	return Storage{}, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
