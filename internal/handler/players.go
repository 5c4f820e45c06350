package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/utils"
)

func (h *Handler) GetAllPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.repository.GetAllPlayers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取球员列表成功", players)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player := r.Context().Value(PlayerCtx).(*domain.Player)
	h.successResponse(w, r, "获取球员信息成功", player)
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname" validate:"omitempty,max=32"`
		FullName string `json:"fullName" validate:"required,max=64"`
		Email    string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSONAndValidate(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 没有指定昵称时由姓名生成
	if req.Nickname == "" {
		req.Nickname = utils.NicknameFromName(req.FullName)
	}
	if req.Nickname == "" {
		h.errorResponse(w, r, "无法由姓名生成昵称，请指定昵称")
		return
	}

	player := &domain.Player{
		Nickname: req.Nickname,
		FullName: req.FullName,
		Email:    req.Email,
	}

	if err := h.repository.CreatePlayer(player); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "players_nickname_key":
			h.errorResponse(w, r, "球员昵称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建球员成功", player)
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	player := r.Context().Value(PlayerCtx).(*domain.Player)

	var req struct {
		Nickname *string `json:"nickname" validate:"omitempty,min=1,max=32"`
		FullName *string `json:"fullName" validate:"omitempty,min=1,max=64"`
		Email    *string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSONAndValidate(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Nickname != nil {
		player.Nickname = *req.Nickname
	}
	if req.FullName != nil {
		player.FullName = *req.FullName
	}
	if req.Email != nil {
		player.Email = *req.Email
	}

	if err := h.repository.UpdatePlayer(player); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 版本号不匹配，说明在此期间已被其他请求修改
			h.errorResponse(w, r, "球员信息已被修改，请重试")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "players_nickname_key":
			h.errorResponse(w, r, "球员昵称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新球员信息成功", player)
}
