package worker

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
)

// Scheduler ставит периодические задачи в очередь по календарному расписанию.
// Перед постановкой берется короткоживущая блокировка в Redis (SET NX):
// при нескольких экземплярах планировщика задача ставится один раз за тик.
type Scheduler struct {
	queue     repository.JobQueue
	cacheRepo repository.CacheRepository
	cron      *cron.Cron
}

// NewScheduler создает новый планировщик периодических задач
func NewScheduler(queue repository.JobQueue, cacheRepo repository.CacheRepository) *Scheduler {
	return &Scheduler{
		queue:     queue,
		cacheRepo: cacheRepo,
		cron:      cron.New(),
	}
}

// AddJob регистрирует периодическую задачу с cron-выражением
func (s *Scheduler) AddJob(ctx context.Context, spec, jobName string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.enqueue(ctx, jobName)
	})
	if err != nil {
		return err
	}
	log.Printf("[Scheduler] Задача %s зарегистрирована с расписанием %q", jobName, spec)
	return nil
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[Scheduler] Планировщик периодических задач запущен")
}

// Stop останавливает планировщик и дожидается завершения запущенных тиков
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[Scheduler] Планировщик периодических задач остановлен")
}

// enqueue ставит задачу в очередь под блокировкой одного тика
func (s *Scheduler) enqueue(ctx context.Context, jobName string) {
	// Блокировка тика: второй экземпляр планировщика пропускает постановку
	lockKey := "scheduler:lock:" + jobName
	ok, err := s.cacheRepo.SetNX(lockKey, 1, time.Minute)
	if err != nil {
		log.Printf("[Scheduler] Ошибка взятия блокировки для %s: %v", jobName, err)
		return
	}
	if !ok {
		log.Printf("[Scheduler] Задача %s уже поставлена другим экземпляром, пропуск", jobName)
		return
	}

	job, err := entity.NewJob(jobName, nil)
	if err != nil {
		log.Printf("[Scheduler] Ошибка создания задачи %s: %v", jobName, err)
		return
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		log.Printf("[Scheduler] Ошибка постановки задачи %s в очередь: %v", jobName, err)
		return
	}
	log.Printf("[Scheduler] Задача %s (id=%s) поставлена в очередь", jobName, job.ID)
}
