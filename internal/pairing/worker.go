package pairing

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/scheduler"
	"github.com/fairway-league/golfer/backend/internal/utils"
)

// ErrInvalidJob 任务数据有缺陷，重试也不会成功
var ErrInvalidJob = errors.New("分组任务无效")

type Repository interface {
	GetEventByID(id int64) (*domain.Event, error)
	GetEventDates(eventID int64) ([]*domain.EventDate, error)
	GetUserByID(id int64) (*domain.User, error)
	ReplaceEventTeams(eventID int64, teams []domain.EventTeam, comments []domain.EventComment) error
}

type ProgressStore interface {
	Save(eventID int64, p *domain.PairingProgress) error
	Release(eventID int64, jobID string) error
}

type MailPublisher interface {
	PublishMail(m *domain.MailMessage) error
}

type Options struct {
	CleanCount       int32 // 任务没有指定时使用
	ProbeCount       int32
	ProgressInterval time.Duration
}

// Worker 执行分组任务：读取比赛日、运行优化器、保存结果并通知发起人
type Worker struct {
	repo    Repository
	store   ProgressStore
	mailer  MailPublisher
	options Options
	logger  *slog.Logger
}

func NewWorker(repo Repository, store ProgressStore, mailer MailPublisher, options Options, logger *slog.Logger) *Worker {
	if options.ProgressInterval <= 0 {
		options.ProgressInterval = 2 * time.Second
	}
	return &Worker{
		repo:    repo,
		store:   store,
		mailer:  mailer,
		options: options,
		logger:  logger,
	}
}

// Process 执行一个分组任务，返回的错误包装了 ErrInvalidJob 时表示任务数据有缺陷
// 无论成功与否，任务结束时都会释放赛事的任务锁
func (w *Worker) Process(job *domain.PairingJob) error {
	logger := w.logger.With("jobID", job.ID, "eventID", job.EventID)

	defer func() {
		if err := w.store.Release(job.EventID, job.ID); err != nil {
			logger.Error("无法释放分组任务锁", "error", err)
		}
	}()

	event, result, err := w.run(job, logger)
	if err != nil {
		w.fail(job, event, err, logger)
		return err
	}

	w.saveProgress(job, domain.PairingStatusDone, 1, "", logger)
	logger.Info("分组任务完成", "cost", result.Cost, "teams", len(result.Teams), "iterations", result.Iterations)

	w.notify(job, logger, func(user *domain.User) *domain.MailMessage {
		return &domain.MailMessage{
			Type: domain.MailTypePairingComplete,
			To:   user.Email,
			Data: domain.PairingCompleteMailData{
				FullName:   user.FullName,
				EventName:  event.Name,
				TeamCount:  len(result.Teams),
				Cost:       result.Cost,
				Iterations: result.Iterations,
			},
		}
	})

	return nil
}

func (w *Worker) run(job *domain.PairingJob, logger *slog.Logger) (*domain.Event, *scheduler.Result, error) {
	event, err := w.repo.GetEventByID(job.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: 赛事 %d 不存在", ErrInvalidJob, job.EventID)
		}
		return nil, nil, err
	}

	dates, err := w.repo.GetEventDates(job.EventID)
	if err != nil {
		return event, nil, err
	}
	if err := utils.ValidateEventDates(dates); err != nil {
		return event, nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	parameters := &scheduler.Parameters{
		CleanCount: job.CleanCount,
		ProbeCount: job.ProbeCount,
		Seed:       job.Seed,
		Logger:     logger,
	}
	if parameters.CleanCount == 0 {
		parameters.CleanCount = w.options.CleanCount
	}
	if parameters.ProbeCount == 0 {
		parameters.ProbeCount = w.options.ProbeCount
	}

	s, err := scheduler.New(parameters, nil, dates)
	if err != nil {
		return event, nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	w.saveProgress(job, domain.PairingStatusRunning, 0, "", logger)

	result, err := w.schedule(job, s, logger)
	if err != nil {
		return event, nil, err
	}

	if err := utils.ValidateEventTeams(result.Teams, dates); err != nil {
		return event, nil, fmt.Errorf("分组结果无效: %w", err)
	}

	comments := result.Diagnostics.Comments(event.ID)
	if err := w.repo.ReplaceEventTeams(event.ID, result.Teams, comments); err != nil {
		return event, nil, err
	}

	return event, result, nil
}

// schedule 运行优化器，同时定期把进度写入 redis
func (w *Worker) schedule(job *domain.PairingJob, s *scheduler.Scheduler, logger *slog.Logger) (*scheduler.Result, error) {
	done := make(chan struct{})
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(w.options.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.saveProgress(job, domain.PairingStatusRunning, s.Progress(), "", logger)
			}
		}
	}()

	result, err := s.Schedule()
	close(done)
	wg.Wait()

	return result, err
}

func (w *Worker) fail(job *domain.PairingJob, event *domain.Event, err error, logger *slog.Logger) {
	reason := "服务器内部错误"
	if errors.Is(err, ErrInvalidJob) {
		reason = err.Error()
		logger.Warn("分组任务无效", "error", err)
	} else {
		logger.Error("分组任务失败", "error", err)
	}

	w.saveProgress(job, domain.PairingStatusFailed, 0, reason, logger)

	eventName := fmt.Sprintf("#%d", job.EventID)
	if event != nil {
		eventName = event.Name
	}
	w.notify(job, logger, func(user *domain.User) *domain.MailMessage {
		return &domain.MailMessage{
			Type: domain.MailTypePairingFailed,
			To:   user.Email,
			Data: domain.PairingFailedMailData{
				FullName:  user.FullName,
				EventName: eventName,
				Reason:    reason,
			},
		}
	})
}

func (w *Worker) saveProgress(job *domain.PairingJob, status domain.PairingStatus, progress float64, message string, logger *slog.Logger) {
	p := &domain.PairingProgress{
		JobID:    job.ID,
		Status:   status,
		Progress: progress,
		Message:  message,
	}
	if err := w.store.Save(job.EventID, p); err != nil {
		// 进度只是参考信息，保存失败不影响任务本身
		logger.Error("无法保存分组进度", "status", status, "error", err)
	}
}

// notify 给任务发起人发送邮件，发起人不存在或没有邮箱时跳过
func (w *Worker) notify(job *domain.PairingJob, logger *slog.Logger, build func(user *domain.User) *domain.MailMessage) {
	user, err := w.repo.GetUserByID(job.RequestedBy)
	if err != nil {
		logger.Error("无法获取任务发起人", "userID", job.RequestedBy, "error", err)
		return
	}
	if user.Email == "" {
		return
	}

	if err := w.mailer.PublishMail(build(user)); err != nil {
		logger.Error("无法发送邮件到消息队列", "error", err)
	}
}
