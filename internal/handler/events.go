package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/utils"
)

func (h *Handler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.repository.GetAllEvents()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取赛事列表成功", events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)
	h.successResponse(w, r, "获取赛事成功", event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname    string `json:"nickname" validate:"required,max=32"`
		Name        string `json:"name" validate:"required,max=128"`
		Description string `json:"description"`
	}

	if err := h.readJSONAndValidate(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	event := &domain.Event{
		Nickname:    req.Nickname,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.repository.CreateEvent(event); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "events_nickname_key":
			h.errorResponse(w, r, "赛事昵称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建赛事成功", event)
}

func (h *Handler) GetEventDates(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	dates, err := h.repository.GetEventDates(event.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取比赛日成功", dates)
}

func (h *Handler) CreateEventDate(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	var req struct {
		Date    string   `json:"date" validate:"required,golfdate"`
		Times   []string `json:"times" validate:"required,min=1,unique,dive,teetime"`
		Players []string `json:"players" validate:"required,min=1,unique,dive,required"` // 球员昵称，顺序即初始排列
	}

	if err := h.readJSONAndValidate(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 由昵称查找球员
	found, err := h.repository.GetPlayersByNicknames(req.Players)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	missing := make([]string, 0)
	players := make([]domain.Player, 0, len(req.Players))
	for _, nickname := range req.Players {
		player, exists := found[nickname]
		if !exists {
			missing = append(missing, nickname)
			continue
		}
		players = append(players, *player)
	}
	if len(missing) > 0 {
		h.errorResponse(w, r, "以下球员不存在："+strings.Join(missing, ", "))
		return
	}

	ed := &domain.EventDate{
		EventID: event.ID,
		Date:    req.Date,
		Times:   req.Times,
		Players: players,
	}

	if err := utils.ValidateEventDate(ed); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateEventDate(ed); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "event_dates_event_id_date_key":
			h.errorResponse(w, r, "该比赛日已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建比赛日成功", ed)
}
