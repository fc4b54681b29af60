package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "therapy-track/docs"
	"therapy-track/internal/domain/due"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/reminders"
	"therapy-track/internal/domain/reporting"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/middleware"
	"therapy-track/internal/platform/logger"
	"therapy-track/internal/platform/metrics"
	"therapy-track/internal/ports/notify"
)

type Options struct {
	// Opcional: si viene vacío, usa el store in-memory.
	Storage Storage

	// nil => recordatorios deshabilitados (notify.Noop).
	Notifier notify.Notifier

	// nil => se crea un registry propio.
	Metrics *metrics.Metrics

	Logger logger.Logger

	// Zona que define "hoy"; nil = hora local.
	Location *time.Location
}

// App expone el handler y los servicios que main necesita fuera de HTTP
// (seed de grupos, re-armado de recordatorios).
type App struct {
	Handler   http.Handler
	Groups    *groups.Service
	Reminders *reminders.Service
	Days      *due.Service
}

func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	store := opts.Storage
	if store.Medicines == nil {
		store = MemoryStorage()
	}

	// Services por módulo
	medsSvc := medicines.NewService(store.Medicines, log)
	groupsSvc := groups.NewService(store.Groups, notifier, log)
	schedSvc := schedules.NewService(store.Schedules, medsSvc, groupsSvc, log)
	intakeSvc := intake.NewService(store.Intake, schedSvc, medsSvc, groupsSvc, log)
	daysSvc := due.NewService(schedSvc, medsSvc, intakeSvc, loc)
	// El programador cron además permite listar lo armado.
	inspector, _ := notifier.(reminders.Inspector)
	remindersSvc := reminders.NewService(reminders.Options{
		Days:      daysSvc,
		Toggler:   intakeSvc,
		Groups:    groupsSvc,
		Notifier:  notifier,
		Inspector: inspector,
		Recorder:  m,
		Logger:    log,
		Location:  loc,
	})
	// Guardar grupos y editar schedules reconcilia el recordatorio del día.
	groupsSvc.UseReminderSync(remindersSvc)
	schedSvc.UseReminderSync(remindersSvc)
	reportSvc := reporting.NewService(intakeSvc, schedSvc, medsSvc)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log, m))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	frequency.RegisterRoutes(r)
	medicines.RegisterRoutes(r, medsSvc)
	groups.RegisterRoutes(r, groupsSvc)
	schedules.RegisterRoutes(r, schedSvc)
	intake.RegisterRoutes(r, intakeSvc)
	due.RegisterRoutes(r, daysSvc, groupsSvc)
	reminders.RegisterRoutes(r, remindersSvc, daysSvc.Today)
	reporting.RegisterRoutes(r, reportSvc)

	return &App{
		Handler:   r,
		Groups:    groupsSvc,
		Reminders: remindersSvc,
		Days:      daysSvc,
	}
}
