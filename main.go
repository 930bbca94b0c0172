package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/onemove/affiliate-portal/internal/devapi"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	loadConfig(configPath)

	var backend http.Handler
	if cfg.APIBaseURL != "" {
		proxy, err := newAPIProxy(cfg.APIBaseURL)
		if err != nil {
			log.Fatal().Err(err).Str("api_base_url", cfg.APIBaseURL).Msg("invalid api base url")
		}
		backend = proxy
		log.Info().Str("api_base_url", cfg.APIBaseURL).Msg("proxying /api to upstream")
	} else {
		srv, err := devapi.New(cfg.DBPath, cfg.LinkCode)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("dev api startup failed")
		}
		defer srv.Close()
		backend = srv
		log.Info().Str("db_path", cfg.DBPath).Msg("serving bundled dev api at /api")
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	r.Mount("/api", http.StripPrefix("/api", backend))

	r.Handle("/*", &app.Handler{
		Name:            "1Move Affiliate Portal",
		ShortName:       "1Move",
		Description:     "Affiliate management portal for the 1Move program.",
		Styles:          []string{"/web/app.css"},
		BackgroundColor: "#0a0a0a",
		ThemeColor:      "#c4a572",
		Env: map[string]string{
			"LINK_CODE": cfg.LinkCode,
		},
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// requestLogger is the thin zerolog access log used instead of chi's
// default text logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
