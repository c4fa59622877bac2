package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/observability/metrics"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/plan"
	subscriptiondomain "github.com/regobertatangangwatangie-eng/farmpro/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB

	catalog         *plan.Catalog
	subscriptionSvc subscriptiondomain.Service
	campaignSvc     campaigndomain.Service

	webhookLimiter *rateLimiter
}

type Params struct {
	fx.In

	Cfg             config.Config
	Log             *zap.Logger
	DB              *gorm.DB
	Catalog         *plan.Catalog
	SubscriptionSvc subscriptiondomain.Service
	CampaignSvc     campaigndomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		db:              p.DB,
		catalog:         p.Catalog,
		subscriptionSvc: p.SubscriptionSvc,
		campaignSvc:     p.CampaignSvc,
		webhookLimiter:  newRateLimiter(60, time.Minute),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestContext())
	if httpMetrics, err := metrics.NewHTTPMetrics(metrics.Config{
		ServiceName: "farmpro",
		Environment: s.cfg.Environment,
	}); err == nil {
		r.Use(metrics.GinMiddleware(httpMetrics))
	}

	r.GET("/health", s.Health)

	api := r.Group("/api")
	{
		api.GET("/info", s.Info)
		api.GET("/farms", s.ListFarms)

		subs := api.Group("/subscriptions")
		{
			subs.GET("/plans", s.ListPlans)
			subs.POST("/create", s.CreateSubscription)
			subs.POST("/webhook", s.rateLimited(), s.PaymentWebhook)
			subs.GET("/checkout-flw/:id", s.FlutterwaveCheckout)
			subs.GET("/verify/:id", s.GetSubscription)
		}

		ads := api.Group("/ads")
		{
			ads.GET("", s.ListAds)
			ads.POST("/create", s.CreateAd)
			ads.POST("/create-full", s.CreateFullAd)
			ads.POST("/multi-platform", s.MultiPlatformAds)
			ads.POST("/events/webhook", s.rateLimited(), s.AdEventsWebhook)
			ads.POST("/paystack-webhook", s.rateLimited(), s.AdPaystackWebhook)
			ads.GET("/:id/events", s.AdEvents)
			ads.GET("/:id/performance", s.AdPerformance)
		}

		admin := api.Group("/admin", s.requireAdmin())
		{
			admin.GET("/subscriptions", s.AdminListSubscriptions)
			admin.GET("/subscriptions/:id/events", s.AdminSubscriptionEvents)
			admin.GET("/ads", s.AdminListAds)
			admin.POST("/test-cleanup", s.TestCleanup)
		}
	}

	return r
}

// Module provides the HTTP server and ties it to the fx lifecycle.
var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

// RunHTTP starts the HTTP listener when the fx app starts and drains it on
// shutdown.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("port", s.cfg.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
