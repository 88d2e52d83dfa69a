package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
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
	Repo  tododomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  tododomain.Repository
}

func NewService(p ServiceParam) tododomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("todo.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, in tododomain.CreateInput) (*tododomain.Todo, error) {
	now := s.clock.Now().UTC()
	todo := &tododomain.Todo{
		ID:            s.genID.Generate(),
		UserID:        userID,
		Title:         in.Title,
		Description:   in.Description,
		Status:        tododomain.StatusCreated,
		ScheduledTime: in.ScheduledTime,
		RemindTime:    in.RemindTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, todo); err != nil {
		s.log.Error("insert todo", zap.Error(err))
		return nil, tododomain.ErrStorage
	}
	return todo, nil
}

func (s *Service) Get(ctx context.Context, userID, id snowflake.ID) (*tododomain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		s.log.Error("find todo", zap.Error(err))
		return nil, tododomain.ErrStorage
	}
	if todo == nil {
		return nil, tododomain.ErrTodoNotFound
	}
	return todo, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]tododomain.Todo, error) {
	todos, err := s.repo.ListByUserID(ctx, s.db, userID)
	if err != nil {
		s.log.Error("list todos", zap.Error(err))
		return nil, tododomain.ErrStorage
	}
	return todos, nil
}

func (s *Service) Upcoming(ctx context.Context, userID snowflake.ID, ref time.Time) ([]tododomain.Todo, error) {
	if ref.IsZero() {
		ref = s.clock.Now()
	}
	ref = ref.UTC()
	startOfDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	todos, err := s.repo.ListUpcoming(ctx, s.db, userID, startOfDay, tododomain.UpcomingLimit)
	if err != nil {
		s.log.Error("list upcoming todos", zap.Error(err))
		return nil, tododomain.ErrStorage
	}
	return todos, nil
}

func (s *Service) Update(ctx context.Context, userID, id snowflake.ID, in tododomain.UpdateInput) (*tododomain.Todo, error) {
	todo, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		todo.Title = *in.Title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Status != nil {
		switch *in.Status {
		case tododomain.StatusCreated, tododomain.StatusDone:
			todo.Status = *in.Status
		default:
			return nil, tododomain.ErrInvalidStatus
		}
	}
	if in.ScheduledTime != nil {
		todo.ScheduledTime = in.ScheduledTime
	}
	if in.RemindTime != nil {
		todo.RemindTime = in.RemindTime
	}
	todo.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, todo); err != nil {
		s.log.Error("update todo", zap.Error(err))
		return nil, tododomain.ErrStorage
	}
	return todo, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	affected, err := s.repo.SetStatus(ctx, s.db, userID, id, tododomain.StatusDeleted, s.clock.Now().UTC())
	if err != nil {
		s.log.Error("delete todo", zap.Error(err))
		return tododomain.ErrStorage
	}
	if affected == 0 {
		return tododomain.ErrTodoNotFound
	}
	return nil
}
