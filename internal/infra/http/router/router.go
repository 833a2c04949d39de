package router

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/signature-campaign/internal/infra/http/handlers"
	"github.com/xavierca1/signature-campaign/internal/infra/http/middleware"
)

type Options struct {
	Signatures    *handlers.SignatureHandler
	Notifications *handlers.NotificationHandler
	Campaign      *handlers.CampaignHandler
	Health        *handlers.HealthHandler
	SaveLimiter   *handlers.RateLimiter

	CORSOrigins []string
	// StaticDir, when set, serves the built frontend with an index.html fallback.
	StaticDir string
}

var devOrigins = []*regexp.Regexp{
	regexp.MustCompile(`^http://localhost:\d+$`),
	regexp.MustCompile(`^http://127\.0\.0\.1:\d+$`),
	regexp.MustCompile(`^http://192\.168\.\d+\.\d+:\d+$`),
}

func New(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  originAllowed(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", handlers.UserEmailHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", opts.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.SaveLimiter != nil {
				r.Use(opts.SaveLimiter.Middleware)
			}
			r.Post("/save-signature", opts.Signatures.Save)
		})
		r.Get("/signatures", opts.Signatures.List)
		r.Delete("/clear-signatures", opts.Signatures.Clear)
		r.Post("/send-email", opts.Notifications.SendEmail)

		r.Get("/campaign/status", opts.Campaign.Status)
		r.Get("/roster", opts.Campaign.Roster)
		r.Post("/resolve-role", opts.Campaign.ResolveRole)
	})

	if opts.StaticDir != "" {
		r.Get("/*", spaHandler(opts.StaticDir))
	}
	return r
}

// originAllowed accepts the configured origins exactly, plus local and LAN
// development hosts.
func originAllowed(origins []string) func(*http.Request, string) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(_ *http.Request, origin string) bool {
		if _, ok := allowed[origin]; ok {
			return true
		}
		for _, re := range devOrigins {
			if re.MatchString(origin) {
				return true
			}
		}
		return false
	}
}

func spaHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
