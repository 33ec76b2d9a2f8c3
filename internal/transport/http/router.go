package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LiteBots/zacharska/internal/service"
	"github.com/LiteBots/zacharska/internal/session"
	"github.com/LiteBots/zacharska/internal/transport/http/handlers"
	"github.com/LiteBots/zacharska/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger       *slog.Logger
	Timeout      time.Duration
	BasePath     string // например, "/api"; если пустой — роуты регистрируются на корне.
	CookieSecure bool   // флаг Secure у сессионной cookie.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, sessions *session.Manager, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // счётчики/гистограммы в разрезе маршрутов
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc, sessions, opts.CookieSecure)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, sessions)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, sessions)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, sessions *session.Manager) {
	// listings: чтение публично всегда.
	r.Get("/listings", h.ListListings)
	r.Get("/listings/{id}", h.GetListingByID)

	// listings: мутации за админским гейтом (no-op при выключенном гейте).
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessions))

		r.Post("/listings", h.CreateListing)
		r.Put("/listings/{id}", h.UpdateListing)
		r.Delete("/listings/{id}", h.DeleteListing)
	})

	// admin: сессионный гейт.
	r.Post("/admin/login", h.AdminLogin)
	r.Get("/admin/me", h.AdminMe)
	r.Post("/admin/logout", h.AdminLogout)
}
