// Package webhook entrega recordatorios por HTTP POST (JSON) o, sin URL, al log.
package webhook

import (
	"context"
	"net/http"
	"strings"
	"time"

	"therapy-track/internal/platform/httpclient"
	"therapy-track/internal/platform/logger"
	"therapy-track/internal/ports/notify"
)

type Sender struct {
	client *httpclient.Client
	url    string
	log    logger.Logger
}

// New valida la URL; el client se puede inyectar para tests (nil = default).
func New(url string, client *httpclient.Client, log logger.Logger) (*Sender, error) {
	url = strings.TrimSpace(url)
	if err := httpclient.ValidateURL(url); err != nil {
		return nil, err
	}
	if client == nil {
		client = httpclient.New(5 * time.Second)
		client.Retries = 2
	}
	if log == nil {
		log = logger.Nop()
	}
	client.UserAgent = "therapy-track/reminders"
	return &Sender{client: client, url: url, log: log}, nil
}

func (s *Sender) Send(ctx context.Context, r notify.Reminder) error {
	if err := s.client.DoJSON(ctx, http.MethodPost, s.url, nil, r, nil); err != nil {
		s.log.Error("reminder webhook failed", map[string]any{"group_id": r.GroupID, "err": err})
		return err
	}
	s.log.Debug("reminder delivered", map[string]any{"group_id": r.GroupID, "at": r.At})
	return nil
}

// LogSender solo registra el disparo (sin webhook configurado).
type LogSender struct {
	Log logger.Logger
}

func (s LogSender) Send(ctx context.Context, r notify.Reminder) error {
	log := s.Log
	if log == nil {
		log = logger.Nop()
	}
	log.Info("reminder due", map[string]any{"group_id": r.GroupID, "name": r.Name, "at": r.At})
	return nil
}
