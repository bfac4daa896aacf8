package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/millbrook-pd/roster/backend/internal/config"
	"github.com/millbrook-pd/roster/backend/internal/domain"
	"github.com/millbrook-pd/roster/backend/internal/repository"
	"github.com/millbrook-pd/roster/backend/internal/roster"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	mailChannel  *amqp.Channel
	redisClient  *redis.Client
	engine       *roster.Engine
	partnerships *roster.PartnershipResolver

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		mailChannel:  mailCh,
		redisClient:  rdb,
		engine:       roster.NewEngine(repo, slog.Default()),
		partnerships: roster.NewPartnershipResolver(repo, slog.Default()),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in staff account
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/me", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/email", func(r chi.Router) {
				r.Post("/require-update", h.RequireUpdateEmail)
				r.Post("/confirm-update", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/roster", func(r chi.Router) {
			r.Get("/daily", h.GetDailyRoster)
			r.Get("/range", h.GetRosterRange)
			r.Get("/force-list", h.GetForceList)
		})

		r.Route("/officers", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateOfficer)
			r.Get("/", h.GetAllOfficers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.officerInfo)
				r.Get("/", h.GetOfficer)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateOfficer)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteOfficer)
			})
		})

		r.Route("/shift-types", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateShiftType)
			r.Get("/", h.GetAllShiftTypes)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTypeInfo)
				r.Get("/", h.GetShiftType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateShiftType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteShiftType)
			})
		})

		schedulers := h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleScheduler})

		r.Route("/recurring", func(r chi.Router) {
			r.With(schedulers).Post("/", h.CreateRecurringAssignment)
			r.Get("/", h.GetRecurringAssignments)
			r.Route("/{id}", func(r chi.Router) {
				r.With(schedulers).Patch("/", h.UpdateRecurringAssignment)
				r.With(schedulers).Delete("/", h.DeleteRecurringAssignment)
			})
		})

		r.Route("/exceptions", func(r chi.Router) {
			r.With(schedulers).Post("/", h.CreateException)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.exceptionInfo)
				r.With(schedulers).Delete("/", h.DeleteException)
			})
		})

		r.Route("/partnerships", func(r chi.Router) {
			r.With(schedulers).Post("/", h.CreatePartnership)
			r.With(schedulers).Delete("/", h.RemovePartnership)
			r.Get("/audits", h.GetPartnershipAudits)
		})

		r.Route("/minimum-staffing", func(r chi.Router) {
			r.With(schedulers).Post("/", h.UpsertMinimumStaffing)
			r.Get("/", h.GetAllMinimumStaffing)
			r.With(schedulers).Delete("/{id}", h.DeleteMinimumStaffing)
		})

		r.Route("/default-assignments", func(r chi.Router) {
			r.With(schedulers).Post("/", h.CreateDefaultAssignment)
			r.With(schedulers).Delete("/{id}", h.DeleteDefaultAssignment)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
			})
		})
	})
}
