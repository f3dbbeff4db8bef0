package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
)

// JobHandler обрабатывает одну задачу. Возвращенная ошибка логируется,
// задача не повторяется: неудача терминальна для данного вызова.
type JobHandler func(ctx context.Context, job *entity.Job) error

// Dispatcher разбирает очередь задач пулом воркеров и маршрутизирует
// задачи по имени на зарегистрированные обработчики
type Dispatcher struct {
	queue          repository.JobQueue
	workerCount    int
	dequeueTimeout time.Duration

	mu       sync.RWMutex
	handlers map[string]JobHandler

	wg sync.WaitGroup
}

// NewDispatcher создает новый диспетчер задач
func NewDispatcher(queue repository.JobQueue, workerCount int, dequeueTimeout time.Duration) *Dispatcher {
	if workerCount <= 0 {
		workerCount = 4
	}
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5 * time.Second
	}
	return &Dispatcher{
		queue:          queue,
		workerCount:    workerCount,
		dequeueTimeout: dequeueTimeout,
		handlers:       make(map[string]JobHandler),
	}
}

// Register привязывает обработчик к имени задачи.
// Повторная регистрация имени перезаписывает обработчик.
func (d *Dispatcher) Register(name string, handler JobHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = handler
}

// Start запускает пул воркеров. Возврат из Start не означает остановку:
// воркеры работают до отмены контекста, Wait блокируется до их завершения.
func (d *Dispatcher) Start(ctx context.Context) {
	log.Printf("[Dispatcher] Запуск %d воркеров очереди задач", d.workerCount)
	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i+1)
	}
}

// Wait блокируется до завершения всех воркеров
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// runWorker - цикл одного воркера: блокирующее чтение очереди и обработка
func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Dispatcher] Воркер #%d остановлен", id)
			return
		default:
		}

		job, err := d.queue.Dequeue(ctx, d.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			log.Printf("[Dispatcher] Воркер #%d: ошибка чтения очереди: %v", id, err)
			// Пауза, чтобы не крутить цикл при недоступном Redis
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue // таймаут, очередь пуста
		}

		d.process(ctx, id, job)
	}
}

// process выполняет задачу с защитой от паники обработчика
func (d *Dispatcher) process(ctx context.Context, workerID int, job *entity.Job) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Dispatcher] Воркер #%d: PANIC в задаче %s (id=%s): %v",
				workerID, job.Name, job.ID, rec)
		}
	}()

	d.mu.RLock()
	handler, ok := d.handlers[job.Name]
	d.mu.RUnlock()
	if !ok {
		log.Printf("[Dispatcher] Воркер #%d: нет обработчика для задачи %s (id=%s), задача отброшена",
			workerID, job.Name, job.ID)
		return
	}

	started := time.Now()
	if err := handler(ctx, job); err != nil {
		// Повторов нет: ошибка фиксируется в логе, задача считается завершенной
		log.Printf("[Dispatcher] Воркер #%d: задача %s (id=%s) завершилась ошибкой за %v: %v",
			workerID, job.Name, job.ID, time.Since(started), err)
		return
	}
	log.Printf("[Dispatcher] Воркер #%d: задача %s (id=%s) выполнена за %v",
		workerID, job.Name, job.ID, time.Since(started))
}
