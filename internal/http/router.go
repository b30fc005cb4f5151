package http

import (
	"net/http"

	"mindnest/internal/auth"
	"mindnest/internal/config"
	"mindnest/internal/http/handler"
	mw "mindnest/internal/http/middleware"
	"mindnest/internal/insight"
	"mindnest/internal/jobs"
	"mindnest/internal/journal"
	"mindnest/internal/prefs"
	"mindnest/internal/prompts"
	"mindnest/internal/quotes"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Auth      *auth.Service
	Journals  *journal.Service
	Jobs      *jobs.Repo
	Prompts   *prompts.Service
	Prefs     *prefs.Store
	Quotes    *quotes.Client
	Reflector insight.Reflector
}

// NewDeps builds the production services from config.
func NewDeps(cfg config.Config, db *gorm.DB) Deps {
	jobRepo := &jobs.Repo{DB: db}
	return Deps{
		Auth:      &auth.Service{DB: db, JWT: auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)},
		Journals:  &journal.Service{DB: db, Refresh: jobRepo},
		Jobs:      jobRepo,
		Prompts:   &prompts.Service{DB: db},
		Prefs:     &prefs.Store{DB: db},
		Quotes:    quotes.New(cfg.QuoteTimeout),
		Reflector: insight.New(cfg.AnthropicAPIKey, cfg.AnthropicModel),
	}
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAuth := auth.RequireAuth(d.Auth.JWT, d.Auth)

	ah := &handler.AuthHandler{Svc: d.Auth}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)
	r.With(requireAuth).Post("/auth/logout", ah.Logout)

	qh := &handler.QuoteHandler{Client: d.Quotes}
	r.Get("/quotes/random", qh.Random)

	loc := cfg.Location()

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		me := &handler.MeHandler{Auth: d.Auth, Journals: d.Journals}
		r.Get("/me", me.Me)
		r.Patch("/me", me.Update)

		ch := &handler.CollectionHandler{Svc: d.Journals}
		r.Route("/collections", func(r chi.Router) {
			r.Get("/", ch.List)
			r.Post("/", ch.Create)
			r.Get("/{id}", ch.Get)
			r.Patch("/{id}", ch.Update)
			r.Delete("/{id}", ch.Delete)
		})

		jh := &handler.JournalHandler{Svc: d.Journals}
		r.Route("/journals", func(r chi.Router) {
			r.Get("/", jh.List)
			r.Post("/", jh.Create)
			r.Get("/{id}", jh.Get)
			r.Patch("/{id}", jh.Update)
			r.Delete("/{id}", jh.Delete)
			r.Post("/{id}/favorite", jh.ToggleFavorite)
		})

		an := &handler.AnalyticsHandler{
			Journals:  d.Journals,
			Jobs:      d.Jobs,
			Reflector: d.Reflector,
			Location:  loc,
		}
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", an.Summary)
			r.Get("/moods", an.Moods)
			r.Get("/snapshot", an.Snapshot)
			r.Post("/reflection", an.Reflection)
		})
		r.Get("/dashboard", an.Dashboard)

		ph := &handler.PromptHandler{Svc: d.Prompts, Location: loc}
		r.Get("/prompts", ph.List)
		r.Get("/prompts/daily", ph.Daily)

		pf := &handler.PrefsHandler{Store: d.Prefs}
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", pf.List)
			r.Get("/{key}", pf.Get)
			r.Put("/{key}", pf.Put)
			r.Delete("/{key}", pf.Delete)
		})
	})

	return r
}
