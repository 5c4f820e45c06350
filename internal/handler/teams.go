package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/progress"
	"github.com/fairway-league/golfer/backend/internal/utils"
)

func (h *Handler) GetEventTeams(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	teams, err := h.repository.GetEventTeams(event.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分组成功", teams)
}

func (h *Handler) GetEventComments(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	comments, err := h.repository.GetEventComments(event.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分组诊断信息成功", comments)
}

func (h *Handler) GetPairingProgress(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	p, err := h.progress.Get(event.ID)
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrNotFound):
			h.successResponse(w, r, "暂无分组任务", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取分组进度成功", p)
}

// GenerateEventTeams 将分组任务发送到消息队列，由 pairing worker 异步执行
func (h *Handler) GenerateEventTeams(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 参数均可省略，0 表示使用默认值
	var req struct {
		CleanCount int32 `json:"cleanCount" validate:"min=0"`
		ProbeCount int32 `json:"probeCount" validate:"min=0"`
		Seed       int64 `json:"seed"`
	}

	if r.ContentLength != 0 {
		if err := h.readJSONAndValidate(w, r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	// 提前检查比赛日，避免把注定失败的任务放进队列
	dates, err := h.repository.GetEventDates(event.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateEventDates(dates); err != nil {
		h.badRequest(w, r, err)
		return
	}

	job := domain.PairingJob{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		RequestedBy: myInfo.ID,
		CleanCount:  req.CleanCount,
		ProbeCount:  req.ProbeCount,
		Seed:        req.Seed,
		CreatedAt:   time.Now(),
	}

	acquired, err := h.progress.Acquire(event.ID, job.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !acquired {
		h.errorResponse(w, r, "该赛事已有分组任务正在进行")
		return
	}

	if err := h.enqueuePairingJob(&job); err != nil {
		_ = h.progress.Release(event.ID, job.ID)
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "分组任务已提交", job)
}

func (h *Handler) enqueuePairingJob(job *domain.PairingJob) error {
	if err := h.progress.Save(job.EventID, &domain.PairingProgress{
		JobID:  job.ID,
		Status: domain.PairingStatusQueued,
	}); err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.pairingChannel.PublishWithContext(
		ctx,
		"",
		h.config.Pairing.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Body:         body,
		},
	)
}
