package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/match-explainer/internal/metrics"
	"github.com/stitts-dev/match-explainer/internal/models"
)

// ExplanationOptions is fixed at startup and shared by every request
type ExplanationOptions struct {
	Models         []string
	Temperature    float64
	MaxTokens      int
	AttemptTimeout time.Duration
}

// Explanation is the text of the first candidate that answered
type Explanation struct {
	Text     string
	Model    string
	Attempts int
}

// ExplanationService walks the candidate models in order until one answers
type ExplanationService struct {
	provider CompletionProvider
	options  ExplanationOptions
	logger   *logrus.Logger
}

// NewExplanationService creates a new explanation service. The model list is
// copied so later changes by the caller do not affect running requests.
func NewExplanationService(provider CompletionProvider, options ExplanationOptions, logger *logrus.Logger) *ExplanationService {
	options.Models = append([]string(nil), options.Models...)
	return &ExplanationService{
		provider: provider,
		options:  options,
		logger:   logger,
	}
}

// Models returns the candidate order
func (s *ExplanationService) Models() []string {
	return append([]string(nil), s.options.Models...)
}

// Explain sends the prompt to each candidate once, in order. Every failure
// is soft; only exhausting the list returns an *ExhaustedError. A cancelled
// request context stops the chain and its error is returned as is.
func (s *ExplanationService) Explain(ctx context.Context, req *models.MatchComparisonRequest) (*Explanation, error) {
	start := time.Now()
	prompt := BuildExplanationPrompt(req)

	log := s.logger.WithFields(logrus.Fields{
		"favorite_team": req.FavoriteTeam,
		"candidates":    len(s.options.Models),
	})
	log.Info("Generating explanation")

	failures := make([]AttemptFailure, 0, len(s.options.Models))

	for i, model := range s.options.Models {
		attempt := i + 1
		text, err := s.attempt(ctx, model, prompt)
		if err == nil {
			metrics.CompletionAttempts.WithLabelValues(model, "success").Inc()
			metrics.ExplanationsServed.Inc()
			log.WithFields(logrus.Fields{
				"model":      model,
				"attempt":    attempt,
				"elapsed_ms": time.Since(start).Milliseconds(),
			}).Info("Explanation generated")
			return &Explanation{Text: text, Model: model, Attempts: attempt}, nil
		}

		if ctx.Err() != nil {
			log.WithField("attempt", attempt).Warn("Request cancelled, abandoning remaining candidates")
			return nil, fmt.Errorf("explanation aborted after %d attempts: %w", attempt, ctx.Err())
		}

		failure := classifyFailure(model, err)
		failures = append(failures, failure)
		metrics.CompletionAttempts.WithLabelValues(model, string(failure.Kind)).Inc()

		log.WithFields(logrus.Fields{
			"model":   model,
			"attempt": attempt,
			"reason":  failure.Kind,
			"status":  failure.StatusCode,
		}).WithError(err).Warn("Candidate model failed, trying next")
	}

	metrics.ExplanationsExhausted.Inc()
	log.WithField("elapsed_ms", time.Since(start).Milliseconds()).Error("All candidate models failed")

	return nil, &ExhaustedError{Failures: failures}
}

func (s *ExplanationService) attempt(ctx context.Context, model, prompt string) (string, error) {
	attemptCtx := ctx
	if s.options.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.options.AttemptTimeout)
		defer cancel()
	}

	timer := time.Now()
	defer func() {
		metrics.CompletionDuration.WithLabelValues(model).Observe(time.Since(timer).Seconds())
	}()

	return s.provider.Complete(attemptCtx, CompletionRequest{
		Model:        model,
		SystemPrompt: ExplanationSystemPrompt,
		Prompt:       prompt,
		Temperature:  s.options.Temperature,
		MaxTokens:    s.options.MaxTokens,
	})
}
