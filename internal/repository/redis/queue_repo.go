package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// QueueRepo реализует repository.JobQueue поверх Redis-списка.
// LPUSH при постановке, BRPOP при извлечении: задачи обрабатываются
// в порядке поступления и переживают перезапуск процессов.
type QueueRepo struct {
	client   redis.UniversalClient
	queueKey string
}

// NewQueueRepo создает новый репозиторий очереди задач
func NewQueueRepo(client redis.UniversalClient, queueKey string) (*QueueRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for QueueRepo")
	}
	if queueKey == "" {
		return nil, fmt.Errorf("queue key cannot be empty for QueueRepo")
	}
	return &QueueRepo{
		client:   client,
		queueKey: queueKey,
	}, nil
}

// Enqueue ставит задачу в очередь
func (r *QueueRepo) Enqueue(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.Name, err)
	}
	return r.client.LPush(ctx, r.queueKey, data).Err()
}

// Dequeue блокирующе извлекает задачу из очереди.
// Возвращает (nil, nil) по истечении timeout, если задач нет.
func (r *QueueRepo) Dequeue(ctx context.Context, timeout time.Duration) (*entity.Job, error) {
	result, err := r.client.BRPop(ctx, timeout, r.queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPop возвращает пару [ключ, значение]
	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length: %d", len(result))
	}

	var job entity.Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	return &job, nil
}
