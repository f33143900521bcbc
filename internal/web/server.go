// Package web отдает интервью браузерной странице через JSON API
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mock-interview/internal/backend"
	"mock-interview/internal/config"
	"mock-interview/internal/interview"
	"mock-interview/internal/metrics"
)

const (
	cookieName     = "mi_session"
	uiSessionKey   = "ui_session"
	maxUploadBytes = 32 << 20
)

// Server представляет веб-адаптер поверх контроллера интервью
type Server struct {
	config   *config.Config
	backend  *backend.Client
	observer interview.Observer
	metrics  *metrics.Metrics
	registry *Registry
	limiter  *RateLimiter
	log      zerolog.Logger
	rootLog  zerolog.Logger
}

// New собирает сервер. observer получает события всех сессий (метрики, журнал).
func New(cfg *config.Config, client *backend.Client, observer interview.Observer, m *metrics.Metrics, log zerolog.Logger) *Server {
	if observer == nil {
		observer = interview.NopObserver{}
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	s := &Server{
		config:   cfg,
		backend:  client,
		observer: observer,
		metrics:  m,
		limiter:  NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow),
		log:      log.With().Str("component", "web").Logger(),
		rootLog:  log,
	}
	s.registry = NewRegistry(cfg.Server.SessionTTL, s.newUISession)
	return s
}

func (s *Server) newUISession(id string) *uiSession {
	client := s.backend.Fork()
	return &uiSession{
		id:     id,
		client: client,
		controller: interview.NewController(client,
			interview.WithObserver(s.observer),
			interview.WithLogger(s.rootLog)),
	}
}

// Router возвращает gin engine со всеми маршрутами
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept", "Origin", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.registry.Len()})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api", s.limiter.Middleware(), s.sessionMiddleware())
	{
		api.POST("/login", s.handleLogin)
		api.POST("/register", s.handleRegister)
		api.POST("/logout", s.handleLogout)
		api.GET("/dashboard", s.handleDashboard)

		api.POST("/interview", s.handleStartInterview)
		api.GET("/interview", s.handleGetInterview)
		api.DELETE("/interview", s.handleDiscardInterview)
		api.POST("/interview/question", s.handleFetchQuestion)
		api.POST("/interview/recording", s.handleStartRecording)
		api.POST("/interview/answer", s.handleAnswer)
		api.POST("/interview/skip", s.handleSkip)
		api.POST("/interview/end", s.handleEnd)

		api.GET("/feedback", s.handleOverallFeedback)
		api.GET("/feedback/:id", s.handleInterviewFeedback)
	}
	return r
}

// Run слушает addr до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	s.registry.StartCleanup(ctx, time.Hour)

	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

// sessionMiddleware находит UI сессию по cookie и держит ее блокировку на время запроса
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		ui, created := s.registry.getOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, ui.id, int(s.config.Server.SessionTTL.Seconds()), "/", "", false, true)
		}

		ui.mu.Lock()
		defer ui.mu.Unlock()

		c.Set(uiSessionKey, ui)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func currentUI(c *gin.Context) *uiSession {
	return c.MustGet(uiSessionKey).(*uiSession)
}
