package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/config"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/notify"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/repository"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/service"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	notifier    *notify.Publisher
	redisClient *redis.Client

	availability *service.AvailabilityService
	catalog      *service.CatalogService
	staffing     *service.StaffingService
	drafts       *service.DraftService
	exchanges    *service.ExchangeService
	views        *service.ViewService

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifier *notify.Publisher, rdb *redis.Client, logger *slog.Logger) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	staffing := service.NewStaffingService(repo, logger)

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		notifier:    notifier,
		redisClient: rdb,

		availability: service.NewAvailabilityService(repo, logger),
		catalog:      service.NewCatalogService(repo, logger),
		staffing:     staffing,
		drafts:       service.NewDraftService(repo, notifier, logger),
		exchanges:    service.NewExchangeService(repo, notifier, logger),
		views:        service.NewViewService(repo, staffing, logger),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// Everything below needs a valid session.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole(domain.AdjudicatorRoles)).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo) // roster views need everyone's names
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole(domain.AdjudicatorRoles)).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole(domain.AdjudicatorRoles)).Delete("/", h.DeleteUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole(domain.AdjudicatorRoles)).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/shift-types", func(r chi.Router) {
			r.Get("/", h.GetCatalog)
			r.With(h.RequiredRole(domain.AdjudicatorRoles)).Put("/", h.ReplaceCatalog)
			r.Get("/assignable", h.AssignableShiftTypes)
			r.Get("/display-time", h.DisplayShiftTime)
		})

		r.Route("/availability", func(r chi.Router) {
			r.Get("/window/{week}", h.GetAvailabilityWindow)
			r.Route("/my/{week}", func(r chi.Router) {
				r.Use(h.myInfo)
				r.Put("/", h.SubmitMyAvailability)
				r.Get("/", h.GetMyAvailability)
			})
			r.With(h.RequiredRole(domain.AdjudicatorRoles)).Get("/{week}", h.GetWeekAvailability)
		})

		r.Route("/staffing", func(r chi.Router) {
			r.Use(h.RequiredRole(domain.AdjudicatorRoles))
			r.Put("/", h.UpsertStaffingRequirement)
			r.Get("/{week}", h.GetWeekRequirements)
			r.Get("/{week}/status", h.GetWeekStaffingStatus)
		})

		r.Route("/rosters/{role}/{week}", func(r chi.Router) {
			r.Use(h.RequiredRole(domain.AdjudicatorRoles))
			r.Use(h.myInfo)
			r.Get("/", h.GetRosterDraft)
			r.Put("/cells", h.PutDraftCell)
			r.Delete("/cells", h.RemoveDraftCell)
			r.Post("/save", h.SaveDraft)
			r.Post("/publish", h.PublishDraft)
			r.Post("/propose", h.ProposeDraft)
			r.Get("/staffing", h.GetDraftStaffing)
		})

		r.Route("/exchanges", func(r chi.Router) {
			r.Get("/weeks/{week}", h.GetWeekExchanges)
			r.Group(func(r chi.Router) {
				r.Use(h.myInfo)
				r.Post("/swaps", h.RequestSwap)
				r.Get("/coverers/{entryID}", h.GetEligibleCoverers)
				r.Post("/volunteer-requests", h.OpenVolunteerRequest)
				r.Post("/volunteer-requests/{id}/volunteer", h.Volunteer)
				r.Post("/volunteer-requests/{id}/cancel", h.CancelVolunteerRequest)
			})
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole(domain.AdjudicatorRoles))
				r.Post("/swaps/{id}/approve", h.ApproveSwap)
				r.Post("/swaps/{id}/deny", h.DenySwap)
				r.Post("/volunteer-requests/{id}/approve", h.ApproveVolunteer)
			})
		})

		r.Get("/views/{viewType}/{week}", h.GetWeekView)
		r.Get("/schedule/entries/{id}", h.GetScheduleEntry)
		r.With(h.myInfo).Get("/my-week/{week}", h.GetMyWeek)
	})
}
