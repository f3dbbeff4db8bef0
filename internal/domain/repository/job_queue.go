package repository

import (
	"context"
	"time"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// JobQueue определяет методы для работы с очередью фоновых задач.
// Очередь долговечна: задачи переживают перезапуск процесса.
type JobQueue interface {
	// Enqueue ставит задачу в очередь
	Enqueue(ctx context.Context, job *entity.Job) error
	// Dequeue блокирующе извлекает задачу из очереди.
	// Возвращает (nil, nil) по истечении timeout, если задач нет.
	Dequeue(ctx context.Context, timeout time.Duration) (*entity.Job, error)
}
