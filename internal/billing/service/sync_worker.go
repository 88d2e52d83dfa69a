package service

import (
	"context"
	"time"

	billingdomain "github.com/daymark/daymark/internal/billing/domain"
	"github.com/daymark/daymark/internal/config"
	"github.com/daymark/daymark/internal/metrics"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncWorker re-pulls every active subscription on a schedule so local
// rows converge with the provider even when webhook deliveries are lost.
type SyncWorker struct {
	cfg     config.Config
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics
	subRepo subscriptiondomain.Repository
	billing billingdomain.Service
	cron    *cron.Cron
}

type SyncWorkerParam struct {
	fx.In

	Config  config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Metrics
	SubRepo subscriptiondomain.Repository
	Billing billingdomain.Service
}

func NewSyncWorker(p SyncWorkerParam) *SyncWorker {
	return &SyncWorker{
		cfg:     p.Config,
		db:      p.DB,
		log:     p.Log.Named("billing.sync"),
		metrics: p.Metrics,
		subRepo: p.SubRepo,
		billing: p.Billing,
		cron:    cron.New(),
	}
}

func (w *SyncWorker) Start() error {
	_, err := w.cron.AddFunc(w.cfg.SubscriptionSyncSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		w.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info("subscription sync scheduled",
		zap.String("schedule", w.cfg.SubscriptionSyncSchedule),
	)
	return nil
}

func (w *SyncWorker) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce pulls every active subscription. A failed pull is counted and
// logged; the remaining rows still sync.
func (w *SyncWorker) RunOnce(ctx context.Context) {
	subs, err := w.subRepo.ListActive(ctx, w.db)
	if err != nil {
		w.log.Error("list active subscriptions", zap.Error(err))
		return
	}

	for _, sub := range subs {
		if err := w.billing.SyncSubscription(ctx, sub.UserID, sub.ExternalSubscriptionID); err != nil {
			w.metrics.SyncFailures.Inc()
			w.log.Error("periodic subscription sync failed",
				zap.String("external_subscription_id", sub.ExternalSubscriptionID),
				zap.Error(err),
			)
		}
	}
}

func RegisterSyncWorker(lc fx.Lifecycle, worker *SyncWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return worker.Start()
		},
		OnStop: func(ctx context.Context) error {
			worker.Stop()
			return nil
		},
	})
}
