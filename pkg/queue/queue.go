package queue

import (
	"context"
	"time"
)

// Task types published by the registration and event services.
const (
	TaskTypePerformerRegistered = "performer_registered"
	TaskTypePerformerWithdrawn  = "performer_withdrawn"
	TaskTypeAttendeeRegistered  = "attendee_registered"
	TaskTypeEventCancelled      = "event_cancelled"
	TaskTypeEventCompleted      = "event_completed"
)

// Task is one unit of asynchronous work. Data holds task-specific payload
// (ids, names) consumed by the notification worker.
type Task struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	Attempts  int                    `json:"attempts"`
}

// Queue is the transport between services and the notification worker.
type Queue interface {
	Publish(ctx context.Context, task *Task) error
	Consume(ctx context.Context, handler func(*Task) error) error
	Close() error
}
