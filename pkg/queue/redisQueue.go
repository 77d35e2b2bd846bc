package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxRetries   = 3
	defaultPopTimeout   = 5 * time.Second
	defaultRetryBackoff = 2 * time.Second
)

// RedisQueue implements Queue on a Redis list. Failed tasks are retried up to
// maxRetries and then pushed to a dead-letter list for inspection.
type RedisQueue struct {
	client     *redis.Client
	key        string
	dlqKey     string
	maxRetries int
}

func NewRedisQueue(client *redis.Client, key string) (*RedisQueue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	q := &RedisQueue{
		client:     client,
		key:        key,
		dlqKey:     key + ":dlq",
		maxRetries: defaultMaxRetries,
	}

	logrus.Infof("RedisQueue initialized: key=%s, dlq=%s", q.key, q.dlqKey)
	return q, nil
}

func (q *RedisQueue) Publish(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

// Consume blocks, popping tasks and invoking handler until ctx is cancelled.
func (q *RedisQueue) Consume(ctx context.Context, handler func(*Task) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := q.client.BRPop(ctx, defaultPopTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logrus.Errorf("queue pop failed: %v", err)
			time.Sleep(defaultRetryBackoff)
			continue
		}

		// BRPop returns [key, value]
		if len(result) != 2 {
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			logrus.Errorf("failed to unmarshal task, dropping: %v", err)
			continue
		}

		if err := handler(&task); err != nil {
			q.retry(ctx, &task, err)
		}
	}
}

func (q *RedisQueue) retry(ctx context.Context, task *Task, cause error) {
	task.Attempts++
	if task.Attempts >= q.maxRetries {
		logrus.Errorf("task %s exhausted retries, moving to DLQ: %v", task.ID, cause)
		if data, err := json.Marshal(task); err == nil {
			if err := q.client.LPush(ctx, q.dlqKey, data).Err(); err != nil {
				logrus.Errorf("failed to push task %s to DLQ: %v", task.ID, err)
			}
		}
		return
	}

	logrus.Warnf("task %s failed (attempt %d/%d), requeueing: %v",
		task.ID, task.Attempts, q.maxRetries, cause)
	if data, err := json.Marshal(task); err == nil {
		if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
			logrus.Errorf("failed to requeue task %s: %v", task.ID, err)
		}
	}
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
