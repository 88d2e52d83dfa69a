package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	userdomain "github.com/daymark/daymark/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   userdomain.Repository
	SubSvc subscriptiondomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   userdomain.Repository
	subSvc subscriptiondomain.Service
}

func NewService(p ServiceParam) userdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("user.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		subSvc: p.SubSvc,
	}
}

func (s *Service) EnsureFromIdentity(ctx context.Context, identity userdomain.Identity) (*userdomain.User, error) {
	now := s.clock.Now().UTC()

	existing, err := s.repo.FindByGoogleID(ctx, s.db, identity.GoogleID)
	if err != nil {
		s.log.Error("find user by google id", zap.Error(err))
		return nil, userdomain.ErrStorage
	}

	if existing != nil {
		existing.Email = identity.Email
		existing.FirstName = identity.FirstName
		existing.LastName = identity.LastName
		existing.Avatar = identity.Avatar
		existing.UpdatedAt = now
		if err := s.repo.UpdateProfile(ctx, s.db, existing); err != nil {
			s.log.Error("update user profile", zap.Error(err))
			return nil, userdomain.ErrStorage
		}
		return existing, nil
	}

	user := &userdomain.User{
		ID:        s.genID.Generate(),
		GoogleID:  identity.GoogleID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Avatar:    identity.Avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		s.log.Error("insert user", zap.Error(err))
		return nil, userdomain.ErrStorage
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*userdomain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		s.log.Error("find user", zap.Error(err))
		return nil, userdomain.ErrStorage
	}
	if user == nil {
		return nil, userdomain.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, id snowflake.ID) (userdomain.Profile, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return userdomain.Profile{}, err
	}

	eval, err := s.subSvc.Evaluate(ctx, user.ID)
	if err != nil {
		return userdomain.Profile{}, err
	}

	return userdomain.Profile{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Avatar:       user.Avatar,
		Subscription: eval.QuotaInfo,
	}, nil
}
