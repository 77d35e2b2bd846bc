package worker

import (
	"context"
	"fmt"

	"github.com/micdrop/openmic/pkg/queue"

	"github.com/sirupsen/logrus"
)

// NotificationWorker consumes registration and event lifecycle tasks and
// delivers notifications. Delivery is log-based; swapping in email or push
// only requires another Notifier.
type NotificationWorker struct {
	queue    queue.Queue
	notifier Notifier
}

// Notifier delivers one rendered notification.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, subject, body string) error {
	logrus.WithFields(logrus.Fields{
		"subject": subject,
		"body":    body,
	}).Info("Notification delivered")
	return nil
}

func NewNotificationWorker(q queue.Queue, notifier Notifier) *NotificationWorker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &NotificationWorker{queue: q, notifier: notifier}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	logrus.Info("Notification worker started")

	if err := w.queue.Consume(ctx, w.handle); err != nil && ctx.Err() == nil {
		logrus.Errorf("Notification worker stopped with error: %v", err)
		return
	}
	logrus.Info("Notification worker stopped")
}

func (w *NotificationWorker) handle(task *queue.Task) error {
	subject, body, err := render(task)
	if err != nil {
		return err
	}
	return w.notifier.Notify(context.Background(), subject, body)
}

func render(task *queue.Task) (subject, body string, err error) {
	switch task.Type {
	case queue.TaskTypePerformerRegistered:
		return "Performer registered",
			fmt.Sprintf("%v signed up for event %v (slot %v)",
				task.Data["user_name"], task.Data["event_id"], task.Data["slot_number"]), nil
	case queue.TaskTypePerformerWithdrawn:
		return "Performer withdrew",
			fmt.Sprintf("%v withdrew from event %v",
				task.Data["user_name"], task.Data["event_id"]), nil
	case queue.TaskTypeAttendeeRegistered:
		return "Attendee registered",
			fmt.Sprintf("%v will attend event %v",
				task.Data["user_name"], task.Data["event_id"]), nil
	case queue.TaskTypeEventCancelled:
		return "Event cancelled",
			fmt.Sprintf("event %v (%v) was cancelled",
				task.Data["event_id"], task.Data["event_name"]), nil
	case queue.TaskTypeEventCompleted:
		return "Event completed",
			fmt.Sprintf("event %v (%v) has finished",
				task.Data["event_id"], task.Data["event_name"]), nil
	default:
		return "", "", fmt.Errorf("unknown task type %q", task.Type)
	}
}
