package cron

import (
	"SentimentTech/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine            *cron.Cron
	revalidateSpec    string
	feedRevalidateJob *job.FeedRevalidateJob
}

func NewCronManager(revalidateSpec string, feedRevalidateJob *job.FeedRevalidateJob) *Manager {
	return &Manager{
		engine:            cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		revalidateSpec:    revalidateSpec,
		feedRevalidateJob: feedRevalidateJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.revalidateSpec, s.feedRevalidateJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
