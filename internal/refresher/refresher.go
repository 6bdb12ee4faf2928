package refresher

import (
	"fmt"
	"time"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/config"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// Invalidator сбрасывает кэш чатов, открытых на странице
type Invalidator interface {
	InvalidatePage(page auth.Page, keys ...string) int
}

// Job периодическое обновление одной страницы; пустой Keys - весь кэш
type Job struct {
	Page  auth.Page
	Every time.Duration
	Keys  []string
}

// JobsFromConfig администратор обновляет всё, супервизор - отметки дня,
// сотрудник - только свои отметки
func JobsFromConfig(cfg *config.BotConfig) []Job {
	return []Job{
		{Page: auth.PageAdmin, Every: cfg.AdminRefresh},
		{Page: auth.PageSupervisor, Every: cfg.SupervisorRefresh, Keys: []string{cache.KeyRegistros, cache.KeyMisRegistros}},
		{Page: auth.PageDashboard, Every: cfg.EmployeeRefresh, Keys: []string{cache.KeyMisRegistros}},
	}
}

type Refresher struct {
	scheduler *gocron.Scheduler
	target    Invalidator
	jobs      []Job
	logger    *logrus.Entry
}

func New(target Invalidator, jobs []Job) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		jobs:      jobs,
		logger:    logrus.WithField("component", "refresher"),
	}
}

// Start регистрирует задания и запускает планировщик в фоне.
// Задание с нулевым периодом отключено
func (r *Refresher) Start() error {
	for _, job := range r.jobs {
		if job.Every <= 0 {
			r.logger.WithField("page", job.Page).Info("auto refresh disabled")
			continue
		}
		if _, err := r.scheduler.Every(job.Every).Do(r.run, job); err != nil {
			return fmt.Errorf("schedule refresh for %s: %w", job.Page, err)
		}
	}

	r.scheduler.StartAsync()
	return nil
}

func (r *Refresher) Stop() {
	r.scheduler.Stop()
}

func (r *Refresher) run(job Job) {
	n := r.target.InvalidatePage(job.Page, job.Keys...)
	if n > 0 {
		r.logger.WithFields(logrus.Fields{
			"page":  job.Page,
			"chats": n,
		}).Debug("page data refreshed")
	}
}
