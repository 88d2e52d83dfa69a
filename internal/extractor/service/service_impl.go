package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	extractordomain "github.com/daymark/daymark/internal/extractor/domain"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	"github.com/daymark/daymark/internal/metrics"
	"github.com/daymark/daymark/internal/openai"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const systemPromptFormat = `You are an assistant that turns a note into a calendar task.
The current time is %s.
Reply with a single JSON object, no prose, with exactly these keys:
"title" (short string), "description" (string, may be empty),
"scheduled_time" (RFC 3339 timestamp or null),
"remind_time" (RFC 3339 timestamp or null).
Resolve relative dates against the current time.`

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Completer extractordomain.Completer
	SubSvc    subscriptiondomain.Service
	TodoSvc   tododomain.Service
	Ledger    extracthistorydomain.Service
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	metrics   *metrics.Metrics
	completer extractordomain.Completer
	subSvc    subscriptiondomain.Service
	todoSvc   tododomain.Service
	ledger    extracthistorydomain.Service
}

func NewService(p ServiceParam) extractordomain.Service {
	return &Service{
		log:       p.Log.Named("extractor.service"),
		clock:     p.Clock,
		metrics:   p.Metrics,
		completer: p.Completer,
		subSvc:    p.SubSvc,
		todoSvc:   p.TodoSvc,
		ledger:    p.Ledger,
	}
}

func (s *Service) Extract(ctx context.Context, userID snowflake.ID, prompt string) (*tododomain.Todo, error) {
	if _, err := s.subSvc.CheckAllowance(ctx, userID); err != nil {
		if err == subscriptiondomain.ErrQuotaExceeded {
			s.metrics.QuotaDenied.Inc()
		}
		return nil, err
	}
	s.metrics.ExtractRequests.Inc()

	now := s.clock.Now().UTC()
	content, err := s.completer.Complete(ctx, []openai.Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptFormat, now.Format("2006-01-02T15:04:05Z07:00"))},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		s.log.Error("chat completion", zap.Error(err))
		return nil, extractordomain.ErrExtraction
	}

	event, err := parseEvent(content)
	if err != nil {
		s.log.Warn("unparseable completion",
			zap.String("content", content),
			zap.Error(err),
		)
		return nil, extractordomain.ErrExtraction
	}

	todo, err := s.todoSvc.Create(ctx, userID, tododomain.CreateInput{
		Title:         event.Title,
		Description:   event.Description,
		ScheduledTime: event.ScheduledTime,
		RemindTime:    event.RemindTime,
	})
	if err != nil {
		return nil, err
	}

	// Usage is charged only once the todo is stored; a failure anywhere
	// above leaves the ledger untouched.
	if err := s.ledger.Record(ctx, userID, prompt); err != nil {
		s.log.Error("record extraction usage",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return todo, nil
}

// parseEvent decodes the model reply, tolerating a markdown code fence
// around the JSON object.
func parseEvent(content string) (*extractordomain.ExtractedEvent, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var event extractordomain.ExtractedEvent
	if err := json.Unmarshal([]byte(trimmed), &event); err != nil {
		return nil, err
	}
	if event.Title == "" {
		return nil, fmt.Errorf("completion missing title")
	}
	return &event, nil
}
