package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/daymark/daymark/internal/billing/domain"
	"github.com/daymark/daymark/internal/clock"
	"github.com/daymark/daymark/internal/metrics"
	orderdomain "github.com/daymark/daymark/internal/order/domain"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Metrics  *metrics.Metrics
	Repo     billingdomain.Repository
	SubRepo  subscriptiondomain.Repository
	OrderSvc orderdomain.Service
	Provider billingdomain.ProviderClient
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	metrics  *metrics.Metrics
	repo     billingdomain.Repository
	subRepo  subscriptiondomain.Repository
	orderSvc orderdomain.Service
	provider billingdomain.ProviderClient
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("billing.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		metrics:  p.Metrics,
		repo:     p.Repo,
		subRepo:  p.SubRepo,
		orderSvc: p.OrderSvc,
		provider: p.Provider,
	}
}

func (s *Service) HandleWebhook(ctx context.Context, body []byte) error {
	var payload billingdomain.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.log.Warn("malformed webhook body", zap.Error(err))
		return billingdomain.ErrMalformedPayload
	}

	eventName := payload.Meta.EventName
	internalOrderID := payload.Meta.CustomData.InternalOrderID

	if eventName != billingdomain.EventPaymentSuccess {
		s.log.Info("ignoring webhook event", zap.String("event_name", eventName))
		s.record(ctx, eventName, internalOrderID, billingdomain.DispositionIgnoredEvent, body)
		return nil
	}

	if internalOrderID == nil || *internalOrderID == "" {
		s.log.Warn("payment webhook without order correlation id")
		s.record(ctx, eventName, nil, billingdomain.DispositionMissingLinkage, body)
		return nil
	}

	order, err := s.orderSvc.FindByInternalOrderID(ctx, *internalOrderID)
	if err != nil {
		if err == orderdomain.ErrOrderNotFound {
			s.log.Warn("payment webhook for unknown order",
				zap.String("internal_order_id", *internalOrderID),
			)
			s.record(ctx, eventName, internalOrderID, billingdomain.DispositionOrderNotFound, body)
			return nil
		}
		return err
	}

	var attrs billingdomain.PaymentAttributes
	if err := json.Unmarshal(payload.Data.Attributes, &attrs); err != nil {
		s.log.Warn("malformed payment attributes", zap.Error(err))
		return billingdomain.ErrMalformedPayload
	}

	finished, err := s.orderSvc.Finish(ctx, order.InternalOrderID, attrs.OrderID)
	if err != nil {
		return err
	}
	if !finished {
		s.log.Info("payment webhook replay for settled order",
			zap.String("internal_order_id", order.InternalOrderID),
		)
	}

	// The sync is best-effort here: the payment is acknowledged either
	// way and the periodic reconciler retries the pull later.
	if err := s.syncFromOrder(ctx, order.UserID, attrs.OrderID); err != nil {
		s.log.Error("subscription sync after payment failed",
			zap.String("internal_order_id", order.InternalOrderID),
			zap.Int64("external_order_id", attrs.OrderID),
			zap.Error(err),
		)
		s.metrics.SyncFailures.Inc()
		s.record(ctx, eventName, internalOrderID, billingdomain.DispositionSyncFailed, body)
		return nil
	}

	s.record(ctx, eventName, internalOrderID, billingdomain.DispositionProcessed, body)
	return nil
}

// syncFromOrder resolves the subscription the provider attached to the
// paid order and pulls its state.
func (s *Service) syncFromOrder(ctx context.Context, userID snowflake.ID, externalOrderID int64) error {
	subs, err := s.provider.ListSubscriptionsByOrder(ctx, externalOrderID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("no subscription attached to order %d", externalOrderID)
	}
	return s.SyncSubscription(ctx, userID, subs[0].ID)
}

func (s *Service) SyncSubscription(ctx context.Context, userID snowflake.ID, externalSubscriptionID string) error {
	remote, err := s.provider.GetSubscription(ctx, externalSubscriptionID)
	if err != nil {
		return err
	}

	startTime, err := time.Parse(time.RFC3339, remote.Attributes.CreatedAt)
	if err != nil {
		return fmt.Errorf("parse created_at %q: %w", remote.Attributes.CreatedAt, err)
	}
	var renewsAt time.Time
	if remote.Attributes.RenewsAt != nil {
		renewsAt, err = time.Parse(time.RFC3339, *remote.Attributes.RenewsAt)
		if err != nil {
			return fmt.Errorf("parse renews_at %q: %w", *remote.Attributes.RenewsAt, err)
		}
	}
	var endsAt *time.Time
	if remote.Attributes.EndsAt != nil {
		parsed, err := time.Parse(time.RFC3339, *remote.Attributes.EndsAt)
		if err != nil {
			return fmt.Errorf("parse ends_at %q: %w", *remote.Attributes.EndsAt, err)
		}
		endsAt = &parsed
	}

	now := s.clock.Now().UTC()
	sub := &subscriptiondomain.Subscription{
		ID:                     s.genID.Generate(),
		UserID:                 userID,
		ExternalSubscriptionID: remote.ID,
		ProductID:              remote.Attributes.ProductID,
		VariantID:              remote.Attributes.VariantID,
		Status:                 subscriptiondomain.StatusFromProvider(remote.Attributes.Status),
		Quota:                  subscriptiondomain.ProTierQuota,
		Type:                   subscriptiondomain.TypePro,
		StartTime:              startTime,
		RenewsAt:               renewsAt,
		EndsAt:                 endsAt,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.subRepo.UpsertByExternalID(ctx, s.db, sub); err != nil {
		s.log.Error("upsert subscription",
			zap.String("external_subscription_id", remote.ID),
			zap.Error(err),
		)
		return billingdomain.ErrStorage
	}

	s.log.Info("subscription synced",
		zap.String("external_subscription_id", remote.ID),
		zap.String("status", string(sub.Status)),
	)
	return nil
}

func (s *Service) record(ctx context.Context, eventName string, internalOrderID *string, disposition string, body []byte) {
	s.metrics.WebhookEvents.WithLabelValues(eventName, disposition).Inc()

	event := &billingdomain.WebhookEvent{
		ID:              s.genID.Generate(),
		EventName:       eventName,
		InternalOrderID: internalOrderID,
		Disposition:     disposition,
		Payload:         datatypes.JSON(body),
		CreatedAt:       s.clock.Now().UTC(),
	}
	if err := s.repo.RecordEvent(ctx, s.db, event); err != nil {
		// Audit failure never blocks the acknowledgement.
		s.log.Error("record webhook event", zap.Error(err))
	}
}
