// Package server wires the HTTP surface: authentication, todo CRUD,
// metered extraction, checkout and the billing webhook.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/daymark/daymark/internal/auth"
	"github.com/daymark/daymark/internal/billing"
	billingdomain "github.com/daymark/daymark/internal/billing/domain"
	"github.com/daymark/daymark/internal/config"
	"github.com/daymark/daymark/internal/extracthistory"
	"github.com/daymark/daymark/internal/extractor"
	extractordomain "github.com/daymark/daymark/internal/extractor/domain"
	"github.com/daymark/daymark/internal/lemonsqueezy"
	"github.com/daymark/daymark/internal/metrics"
	obslogger "github.com/daymark/daymark/internal/observability/logger"
	obstracing "github.com/daymark/daymark/internal/observability/tracing"
	"github.com/daymark/daymark/internal/openai"
	"github.com/daymark/daymark/internal/order"
	orderdomain "github.com/daymark/daymark/internal/order/domain"
	"github.com/daymark/daymark/internal/ratelimit"
	"github.com/daymark/daymark/internal/subscription"
	"github.com/daymark/daymark/internal/todo"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
	"github.com/daymark/daymark/internal/user"
	userdomain "github.com/daymark/daymark/internal/user/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	auth.Module,
	lemonsqueezy.Module,
	openai.Module,
	ratelimit.Module,
	extracthistory.Module,
	subscription.Module,
	user.Module,
	todo.Module,
	order.Module,
	billing.Module,
	extractor.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	log            *zap.Logger
	tokens         *auth.TokenManager
	google         *auth.GoogleAuthenticator
	metrics        *metrics.Metrics
	extractLimiter *ratelimit.ExtractLimiter
	userSvc        userdomain.Service
	todoSvc        tododomain.Service
	orderSvc       orderdomain.Service
	billingSvc     billingdomain.Service
	extractorSvc   extractordomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	Tokens         *auth.TokenManager
	Google         *auth.GoogleAuthenticator
	Metrics        *metrics.Metrics
	ExtractLimiter *ratelimit.ExtractLimiter `optional:"true"`
	UserSvc        userdomain.Service
	TodoSvc        tododomain.Service
	OrderSvc       orderdomain.Service
	BillingSvc     billingdomain.Service
	ExtractorSvc   extractordomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		tokens:         p.Tokens,
		google:         p.Google,
		metrics:        p.Metrics,
		extractLimiter: p.ExtractLimiter,
		userSvc:        p.UserSvc,
		todoSvc:        p.TodoSvc,
		orderSvc:       p.OrderSvc,
		billingSvc:     p.BillingSvc,
		extractorSvc:   p.ExtractorSvc,
	}
}

func registerRoutes(s *Server) {
	s.registerAuthRoutes()
	s.registerAPIRoutes()
	s.registerWebhookRoutes()
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", auth.RequireAuth(s.tokens))

	api.GET("/user/profile", s.getProfile)

	api.POST("/todo", s.createTodo)
	api.GET("/todo", s.listTodos)
	api.GET("/todo/upcoming", s.listUpcomingTodos)
	api.GET("/todo/:id", s.getTodo)
	api.PATCH("/todo/:id", s.updateTodo)
	api.DELETE("/todo/:id", s.deleteTodo)

	api.POST("/extract", s.extract)

	api.POST("/order", s.createCheckout)

	s.engine.GET("/api/order/callback", s.checkoutCallback)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
