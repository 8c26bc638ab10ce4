package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned instead of calling a model whose breaker is open
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerProvider guards a CompletionProvider with one breaker per model
type BreakerProvider struct {
	next     CompletionProvider
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

// NewBreakerProvider creates breakers for the given models. A breaker trips
// after threshold consecutive failures and half-opens after timeout.
func NewBreakerProvider(next CompletionProvider, models []string, threshold int, timeout time.Duration, logger *logrus.Logger) *BreakerProvider {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(models))
	for _, model := range models {
		breakers[model] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        model,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return threshold > 0 && counts.ConsecutiveFailures >= uint32(threshold)
			},
			IsSuccessful: func(err error) bool {
				// the caller going away says nothing about the model's health
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "circuit_breaker",
					"model":     name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		})
	}

	return &BreakerProvider{
		next:     next,
		breakers: breakers,
		logger:   logger,
	}
}

// Complete runs the wrapped provider through the model's breaker
func (p *BreakerProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	breaker, exists := p.breakers[req.Model]
	if !exists {
		p.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"model":     req.Model,
		}).Warn("No circuit breaker found for model, executing without protection")
		return p.next.Complete(ctx, req)
	}

	result, err := breaker.Execute(func() (interface{}, error) {
		return p.next.Complete(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrCircuitOpen
	}
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// State returns the current breaker state of a model
func (p *BreakerProvider) State(model string) gobreaker.State {
	if breaker, exists := p.breakers[model]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}
