package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fairway-league/golfer/backend/internal/config"
	"github.com/fairway-league/golfer/backend/internal/domain"
	"github.com/fairway-league/golfer/backend/internal/progress"
	"github.com/fairway-league/golfer/backend/internal/repository"
)

type Handler struct {
	validate       *validator.Validate
	config         *config.Config
	repository     *repository.Repository
	translator     ut.Translator
	pairingChannel *amqp.Channel
	progress       *progress.Store

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, pairingCh *amqp.Channel, store *progress.Store) (*Handler, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:       validate,
		config:         cfg,
		repository:     repo,
		translator:     trans,
		pairingChannel: pairingCh,
		progress:       store,

		Mux: chi.NewRouter(),
	}, nil
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}
	if err := registerGolfValidations(validate, trans); err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleManager}))
			r.Get("/", h.GetAllUsers)
			r.Post("/", h.CreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUser)
				r.With(h.myInfo).Patch("/", h.UpdateUser)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreatePlayer)
			r.Get("/", h.GetAllPlayers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.playerInfo)
				r.Get("/", h.GetPlayer)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdatePlayer)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateEvent)
			r.Get("/", h.GetAllEvents)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.eventInfo)
				r.Get("/", h.GetEvent)
				r.Route("/dates", func(r chi.Router) {
					r.Get("/", h.GetEventDates)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateEventDate)
				})
				r.Route("/teams", func(r chi.Router) {
					r.Get("/", h.GetEventTeams)
					r.Get("/progress", h.GetPairingProgress)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).With(h.myInfo).Post("/generate", h.GenerateEventTeams)
				})
				r.Get("/comments", h.GetEventComments)
			})
		})
	})
}
