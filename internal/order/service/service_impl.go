package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	"github.com/daymark/daymark/internal/config"
	"github.com/daymark/daymark/internal/lemonsqueezy"
	orderdomain "github.com/daymark/daymark/internal/order/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Config   config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     orderdomain.Repository
	Provider *lemonsqueezy.Client
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     orderdomain.Repository
	provider *lemonsqueezy.Client
}

func NewService(p ServiceParam) orderdomain.Service {
	return &Service{
		cfg:      p.Config,
		db:       p.DB,
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		provider: p.Provider,
	}
}

func (s *Service) CreateCheckout(ctx context.Context, userID snowflake.ID, email string) (*orderdomain.CheckoutSession, error) {
	now := s.clock.Now().UTC()
	internalOrderID := uuid.NewString()
	order := &orderdomain.Order{
		ID:              s.genID.Generate(),
		UserID:          userID,
		InternalOrderID: internalOrderID,
		Status:          orderdomain.StatusCreated,
		RedirectURL:     s.cfg.AppEndpoint + "/api/order/callback?order_id=" + internalOrderID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, s.db, order); err != nil {
		s.log.Error("insert order", zap.Error(err))
		return nil, orderdomain.ErrStorage
	}

	checkout, err := s.provider.CreateCheckout(ctx, lemonsqueezy.CheckoutRequest{
		StoreID:         s.cfg.LemonSqueezy.StoreID,
		VariantID:       s.cfg.LemonSqueezy.VariantID,
		Email:           email,
		InternalOrderID: order.InternalOrderID,
		RedirectURL:     order.RedirectURL,
	})
	if err != nil {
		s.log.Error("create checkout",
			zap.String("internal_order_id", order.InternalOrderID),
			zap.Error(err),
		)
		return nil, orderdomain.ErrCheckout
	}

	return &orderdomain.CheckoutSession{
		InternalOrderID: order.InternalOrderID,
		CheckoutURL:     checkout.Attributes.URL,
	}, nil
}

func (s *Service) FindByInternalOrderID(ctx context.Context, internalOrderID string) (*orderdomain.Order, error) {
	order, err := s.repo.FindByInternalOrderID(ctx, s.db, internalOrderID)
	if err != nil {
		s.log.Error("find order", zap.Error(err))
		return nil, orderdomain.ErrStorage
	}
	if order == nil {
		return nil, orderdomain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) Finish(ctx context.Context, internalOrderID string, externalOrderID int64) (bool, error) {
	order, err := s.repo.FindByInternalOrderID(ctx, s.db, internalOrderID)
	if err != nil {
		s.log.Error("find order", zap.Error(err))
		return false, orderdomain.ErrStorage
	}
	if order == nil {
		return false, orderdomain.ErrOrderNotFound
	}

	affected, err := s.repo.MarkFinished(ctx, s.db, internalOrderID, externalOrderID, s.clock.Now().UTC())
	if err != nil {
		s.log.Error("finish order",
			zap.String("internal_order_id", internalOrderID),
			zap.Error(err),
		)
		return false, orderdomain.ErrStorage
	}
	return affected > 0, nil
}
