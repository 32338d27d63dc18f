package http

import (
	"net/http"
	"time"

	"wicki/internal/observability/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	CORSOrigins []string
	// LoginRateLimit is requests per minute per IP on the credential and
	// code endpoints (both methods of /verify); zero disables it.
	LoginRateLimit int
	HTTPSOnly      bool
	// Metrics overrides the /metrics handler (tests use a private registry).
	Metrics http.Handler
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if opts.HTTPSOnly {
		r.Use(httpsOnly)
	}
	r.Use(chimw.RedirectSlashes)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.WithMetrics)

	limit := func(next http.HandlerFunc) http.Handler {
		if opts.LoginRateLimit <= 0 {
			return next
		}
		return httprate.LimitByIP(opts.LoginRateLimit, time.Minute)(next)
	}

	metricsHandler := opts.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	r.Get("/healthcheck", h.healthcheck)
	r.Get("/me", h.me)
	r.Post("/theme-switch", h.themeSwitch)

	r.Get("/login", h.loginPage)
	r.Method(http.MethodPost, "/login", limit(h.login))
	r.Get("/logout", func(w http.ResponseWriter, r *http.Request) { redirect(w, r, "/") })
	r.Post("/logout", h.logoutAction)
	r.Get("/signup", h.signupPage)
	r.Method(http.MethodPost, "/signup", limit(h.signup))
	r.Method(http.MethodGet, "/verify", limit(h.verify))
	r.Method(http.MethodPost, "/verify", limit(h.verify))
	r.Get("/onboarding", h.onboardingPage)
	r.Post("/onboarding", h.onboarding)

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.settingsPage)
		r.Post("/", h.settings)
		r.Post("/password", h.changePassword)
	})
	r.Get("/resources/download-user-data", h.downloadUserData)

	r.Get("/users", h.listUsers)
	r.Route("/users/{username}", func(r chi.Router) {
		r.Get("/", h.userProfile)
		r.Get("/posts", h.listPosts)
		r.Post("/posts", h.createPost)
		r.Get("/posts/{postId}", h.getPost)
		r.Post("/posts/{postId}/edit", h.updatePost)
		r.Post("/posts/{postId}/delete", h.deletePost)
	})
	r.Get("/admin", h.admin)

	return r
}
