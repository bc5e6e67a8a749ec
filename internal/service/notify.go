package service

import (
	"context"
	"log"
	"time"

	"freshmarket/internal/client"
	"freshmarket/internal/config"
	"freshmarket/internal/dto"
)

const notifyErrLogInterval = time.Minute

// NotifyService reports orders and B2B leads to the human-facing
// notification channel. It is a best-effort side channel: callers tolerate
// failure and must never let it block payment.
type NotifyService interface {
	Send(ctx context.Context, req *dto.NotifyRequest) (*dto.NotifyResponse, error)
}

type notifyServiceImpl struct {
	client client.NotifyClient
	cfg    *config.Config

	// error-log throttle state lives on the instance, not in a package var
	lastErrLog time.Time
	now        func() time.Time
}

func NewNotifyService(notifyClient client.NotifyClient, cfg *config.Config) NotifyService {
	return &notifyServiceImpl{
		client: notifyClient,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *notifyServiceImpl) Send(ctx context.Context, req *dto.NotifyRequest) (*dto.NotifyResponse, error) {
	if req.Name == "" {
		return nil, ErrInvalidInput
	}
	if req.Type == "" {
		req.Type = "Order"
	}

	if !s.cfg.HasNotifyCredentials() {
		s.logThrottled("notify: channel credentials not configured")
		return nil, ErrNotifyUnavailable
	}

	resp, err := s.client.Send(ctx, req)
	if err != nil {
		s.logThrottled("notify: channel send failed: %v", err)
		return nil, ErrNotifyUnavailable
	}

	return resp, nil
}

func (s *notifyServiceImpl) logThrottled(format string, args ...interface{}) {
	if s.now().Sub(s.lastErrLog) < notifyErrLogInterval {
		return
	}
	s.lastErrLog = s.now()
	log.Printf(format, args...)
}
