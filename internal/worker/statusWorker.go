package worker

import (
	"context"
	"time"

	"github.com/micdrop/openmic/internal/service"

	"github.com/sirupsen/logrus"
)

// StatusWorker periodically persists the scheduled -> completed transition
// for events whose date has passed. Reads already fold the transition in, so
// the worker only reconciles the stored rows and fires completion
// notifications.
type StatusWorker struct {
	eventService service.EventService
	interval     time.Duration
	batchSize    int
}

func NewStatusWorker(eventService service.EventService, interval time.Duration, batchSize int) *StatusWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &StatusWorker{
		eventService: eventService,
		interval:     interval,
		batchSize:    batchSize,
	}
}

func (w *StatusWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Event status worker started")

	// Reconcile once at startup to catch events that passed while the
	// server was down.
	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Event status worker stopped")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *StatusWorker) reconcile(ctx context.Context) {
	total := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := w.eventService.ReconcileCompleted(ctx, time.Now(), w.batchSize)
		if err != nil {
			logrus.Errorf("Failed to reconcile completed events: %v", err)
			return
		}
		total += n
		if n < w.batchSize {
			break
		}
	}

	if total > 0 {
		logrus.Infof("Marked %d events completed", total)
	}
}
