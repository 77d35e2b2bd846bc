package service

import (
	"context"
	"time"

	"github.com/micdrop/openmic/pkg/queue"

	"github.com/google/uuid"
)

// queuePublisher adapts a queue.Queue to the TaskPublisher interface used by
// the services.
type queuePublisher struct {
	queue queue.Queue
}

func NewQueuePublisher(q queue.Queue) TaskPublisher {
	return &queuePublisher{queue: q}
}

func (p *queuePublisher) PublishTask(ctx context.Context, taskType string, data map[string]interface{}) error {
	task := &queue.Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Data:      data,
		CreatedAt: time.Now(),
	}
	return p.queue.Publish(ctx, task)
}
