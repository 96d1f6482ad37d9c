package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kidcare/afterhours/internal/protocol"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/events"
	"github.com/kidcare/afterhours/internal/shared/metrics"
	"github.com/kidcare/afterhours/internal/shared/types"
	"github.com/kidcare/afterhours/internal/triage"
)

// AnalyticsRecorder folds a stored assessment into the usage counters
type AnalyticsRecorder interface {
	RecordAssessment(ctx context.Context, a *Assessment) error
}

// Service classifies and stores assessments
type Service struct {
	repo      Repository
	protocols protocol.Repository
	engine    *triage.Engine
	analytics AnalyticsRecorder
	publisher events.Publisher
	logger    *slog.Logger

	updateTimeout time.Duration
	now           func() time.Time
	wg            sync.WaitGroup
}

// Option configures a Service
type Option func(*Service)

// WithAnalytics sets the recorder that receives every stored assessment
func WithAnalytics(a AnalyticsRecorder) Option {
	return func(s *Service) { s.analytics = a }
}

// WithPublisher sets the event publisher for assessment.created events
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithEngine replaces the default rule engine
func WithEngine(e *triage.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithUpdateTimeout bounds each background analytics update
func WithUpdateTimeout(d time.Duration) Option {
	return func(s *Service) { s.updateTimeout = d }
}

// WithClock sets the time source for createdAt
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an assessment service
func NewService(repo Repository, protocols protocol.Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		protocols:     protocols,
		engine:        triage.DefaultEngine(),
		logger:        logger,
		updateTimeout: 10 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request against its protocol, classifies the
// responses, stores the result and hands it to analytics in the background.
func (s *Service) Create(ctx context.Context, req CreateRequest, meta RequestMeta) (*Assessment, error) {
	ageGroup, symptoms, err := req.Validate()
	if err != nil {
		return nil, err
	}
	primary := symptoms[0]

	p, ok, err := s.protocols.Get(ctx, primary, ageGroup)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load protocol")
	}
	metrics.RecordProtocolLookup(ok)
	if !ok {
		return nil, errors.NoGuidance(string(primary), string(ageGroup))
	}

	if details := unknownQuestions(p, req.Responses); len(details) > 0 {
		return nil, errors.Validation("responses do not match the protocol", details)
	}

	responses := req.Responses.Normalize()
	result := s.engine.Classify(primary, ageGroup, responses)
	metrics.RecordClassification(string(result.Urgency), result.Rule)

	a := &Assessment{
		ID:                    types.NewID(),
		AgeGroup:              ageGroup,
		Symptoms:              symptoms,
		Responses:             responses,
		Recommendation:        result.Recommendation,
		UrgencyLevel:          result.Urgency,
		Reasoning:             result.Reasoning,
		CreatedAt:             s.now().UTC(),
		SessionID:             req.SessionID,
		UserAgent:             meta.UserAgent,
		IPAddress:             meta.IPAddress,
		CompletionTimeSeconds: req.CompletionTimeSeconds,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, "failed to store assessment")
	}
	metrics.RecordAssessment(string(a.AgeGroup), string(a.Recommendation))

	s.wg.Add(1)
	go s.afterCreate(*a)

	return a, nil
}

// afterCreate runs the best-effort side effects of a stored assessment.
// Failures are logged and never reach the caller.
func (s *Service) afterCreate(a Assessment) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordAnalyticsFailure()
			s.logger.Error("panic in assessment follow-up", "assessment_id", a.ID, "panic", fmt.Sprint(r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.updateTimeout)
	defer cancel()

	if s.analytics != nil {
		if err := s.analytics.RecordAssessment(ctx, &a); err != nil {
			metrics.RecordAnalyticsFailure()
			s.logger.Error("failed to update analytics", "assessment_id", a.ID, "error", err)
		}
	}

	if s.publisher != nil {
		event := events.NewEvent(events.TypeAssessmentCreated, "assessment", map[string]any{
			"id":             a.ID,
			"ageGroup":       a.AgeGroup,
			"symptom":        a.PrimarySymptom(),
			"recommendation": a.Recommendation,
			"urgencyLevel":   a.UrgencyLevel,
			"createdAt":      a.CreatedAt,
		})
		err := s.publisher.Publish(ctx, event)
		metrics.RecordEventPublished(event.Type, err)
		if err != nil {
			s.logger.Warn("failed to publish assessment event", "assessment_id", a.ID, "error", err)
		}
	}
}

// Wait blocks until background follow-ups for created assessments finish
func (s *Service) Wait() {
	s.wg.Wait()
}

// Get returns a stored assessment
func (s *Service) Get(ctx context.Context, id types.ID) (*Assessment, error) {
	return s.repo.Get(ctx, id)
}

// Classify runs the engine without storing anything
func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (triage.Classification, error) {
	symptom, ageGroup, err := protocol.ParsePair(req.Symptom, req.AgeGroup)
	if err != nil {
		return triage.Classification{}, err
	}

	result := s.engine.Classify(symptom, ageGroup, req.Responses.Normalize())
	metrics.RecordClassification(string(result.Urgency), result.Rule)
	return result, nil
}

func unknownQuestions(p triage.Protocol, responses triage.Responses) map[string]string {
	details := map[string]string{}
	for i, resp := range responses {
		if _, ok := p.Question(resp.QuestionID); !ok {
			details[fmt.Sprintf("responses[%d].questionId", i)] = fmt.Sprintf("unknown question %q for %s", resp.QuestionID, p.Key())
		}
	}
	return details
}
