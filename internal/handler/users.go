package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取账号列表成功", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,max=32"`
		Password string `json:"password" validate:"required,min=8,max=72"`
		FullName string `json:"fullName" validate:"required,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required,oneof=会员 赛事管理员"`
	}

	if err := h.readJSONAndValidate(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// bcrypt 最多只使用密码的前 72 个字节
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
	}

	if err := h.repository.CreateUser(user); err != nil {
		h.userConstraintError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建账号成功", user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtx).(*domain.User)
	h.successResponse(w, r, "获取账号信息成功", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"fullName" validate:"omitempty,min=1,max=64"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Role     *string `json:"role" validate:"omitempty,oneof=会员 赛事管理员"`
		IsActive *bool   `json:"isActive"`
		Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	}

	if err := h.readJSONAndValidate(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user := r.Context().Value(UserCtx).(*domain.User)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 防止管理员把自己降级或停用后无人能管理赛事
	if user.ID == myInfo.ID && ((req.Role != nil && domain.Role(*req.Role) != user.Role) || (req.IsActive != nil && !*req.IsActive)) {
		h.errorResponse(w, r, "不能修改自己的角色或停用自己的账号")
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := h.repository.UpdateUser(user); err != nil {
		h.userConstraintError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新账号信息成功", user)
}

func (h *Handler) userConstraintError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "users_username_key":
			h.errorResponse(w, r, "用户名已存在")
		case "users_email_key":
			h.errorResponse(w, r, "邮箱已存在")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		// 乐观锁版本号不一致
		h.errorResponse(w, r, "账号信息已被修改，请重试")
	default:
		h.internalServerError(w, r, err)
	}
}
