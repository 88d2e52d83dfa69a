package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Repo   subscriptiondomain.Repository
	Ledger extracthistorydomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	repo   subscriptiondomain.Repository
	ledger extracthistorydomain.Service
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("subscription.service"),
		clock:  p.Clock,
		repo:   p.Repo,
		ledger: p.Ledger,
	}
}

func (s *Service) Evaluate(ctx context.Context, userID snowflake.ID) (subscriptiondomain.Evaluation, error) {
	now := s.clock.Now().UTC()

	sub, err := s.repo.FindActiveByUserID(ctx, s.db, userID)
	if err != nil {
		s.log.Error("find active subscription", zap.Error(err))
		return subscriptiondomain.Evaluation{}, subscriptiondomain.ErrStorage
	}

	quota := subscriptiondomain.FreeTierQuota
	periodStart := now.Add(-subscriptiondomain.UsageLookback)
	if sub != nil {
		quota = sub.Quota
		// Count from the subscription's own start so pre-upgrade usage
		// does not burn the new allowance, but never look back more
		// than the rolling window.
		if sub.StartTime.After(periodStart) {
			periodStart = sub.StartTime
		}
	}

	used, err := s.ledger.CountInWindow(ctx, userID, periodStart, now)
	if err != nil {
		return subscriptiondomain.Evaluation{}, err
	}

	return subscriptiondomain.Evaluation{
		QuotaInfo: subscriptiondomain.QuotaInfo{
			Quota:     quota,
			UsedCount: used,
		},
		Subscription: sub,
	}, nil
}

// CheckAllowance is check-then-act: two concurrent requests near the
// boundary can both pass before either records usage. The quota is soft;
// small transient overages are accepted.
func (s *Service) CheckAllowance(ctx context.Context, userID snowflake.ID) (subscriptiondomain.Evaluation, error) {
	eval, err := s.Evaluate(ctx, userID)
	if err != nil {
		return subscriptiondomain.Evaluation{}, err
	}
	if !eval.Remaining() {
		return eval, subscriptiondomain.ErrQuotaExceeded
	}
	return eval, nil
}
