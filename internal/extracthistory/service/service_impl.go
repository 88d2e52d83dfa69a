package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  extracthistorydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  extracthistorydomain.Repository
}

func NewService(p ServiceParam) extracthistorydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("extracthistory.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, userID snowflake.ID, prompt string) error {
	now := s.clock.Now().UTC()
	record := &extracthistorydomain.ExtractRecord{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Prompt:      &prompt,
		ExtractTime: now,
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		s.log.Error("record extract history", zap.Error(err))
		return extracthistorydomain.ErrStorage
	}
	return nil
}

func (s *Service) CountInWindow(ctx context.Context, userID snowflake.ID, start, end time.Time) (int, error) {
	count, err := s.repo.CountInWindow(ctx, s.db, userID, start, end)
	if err != nil {
		s.log.Error("count extract history", zap.Error(err))
		return 0, extracthistorydomain.ErrStorage
	}
	return count, nil
}
