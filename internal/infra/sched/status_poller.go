package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
	"youtube-performance-tracker/internal/usecase"
)

// StatusPoller drives the poll trigger of payment reconciliation: every tick
// it scans pending payments and re-queries the processor through the same
// guarded path the webhook and client checks use. Terminal payments drop out
// of the pending scan, which is what stops their polling.
//
// It also doubles as the stale-payment sweeper: a payment whose webhook was
// lost or whose poller crashed mid-flight is picked up again on the next scan.
type StatusPoller struct {
	uc       usecase.PaymentUseCase
	payments repository.PaymentRepository
	interval time.Duration
	grace    time.Duration // how long past expiry a pending payment keeps being polled
	batch    int
	log      *zerolog.Logger
}

func NewStatusPoller(uc usecase.PaymentUseCase, payments repository.PaymentRepository, interval, grace time.Duration, logger *zerolog.Logger) *StatusPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if grace <= 0 {
		grace = time.Hour
	}
	pollLog := logger.With().Str("component", "StatusPoller").Logger()
	return &StatusPoller{
		uc:       uc,
		payments: payments,
		interval: interval,
		grace:    grace,
		batch:    200,
		log:      &pollLog,
	}
}

func (w *StatusPoller) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting payment status poller")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping payment status poller")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *StatusPoller) tick(ctx context.Context) {
	pending, err := w.payments.ListPendingOlderThan(ctx, nil, time.Now(), w.batch)
	if err != nil {
		w.log.Error().Err(err).Msg("list pending payments")
		return
	}
	for _, p := range pending {
		if w.expiredBeyondGrace(p) {
			// The processor had its chance; stop burning API calls on this
			// charge. A late webhook can still finalize it.
			continue
		}
		status, err := w.uc.ReconcileOnce(ctx, p.ID)
		if err != nil {
			// Transient processor failures are retried on the next tick.
			// Anything else (e.g. a failed activation) must be visible.
			w.log.Error().Err(err).Str("payment_id", p.ID).Msg("poll reconcile failed")
			continue
		}
		if status.IsTerminal() {
			w.log.Info().Str("payment_id", p.ID).Str("status", string(status)).Msg("poll finalized payment")
		}
	}
}

func (w *StatusPoller) expiredBeyondGrace(p *model.PixPayment) bool {
	return !p.ExpiresAt.IsZero() && time.Since(p.ExpiresAt) > w.grace
}
