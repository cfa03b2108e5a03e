package service

import (
	"context"
	"net/http"
	"time"

	"github.com/gothiabil/bilgateway/completion"
	"github.com/gothiabil/bilgateway/metrics"
	"github.com/gothiabil/bilgateway/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	EndpointGenerateAd = "generate-ad"
	EndpointResearch   = "car-research"
)

// Completer sends one chat-completion request to the provider.
type Completer interface {
	Complete(ctx context.Context, apiKey string, messages []models.Message) (completion.Result, error)
}

// Service is stateless across calls: credentials and templates arrive with each request
// and are dropped when it returns.
type Service struct {
	Completion     Completer
	ResearchAPIKey string

	inFlight *semaphore.Weighted
}

func New(completer Completer, researchAPIKey string, maxInFlight int) Service {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return Service{
		Completion:     completer,
		ResearchAPIKey: researchAPIKey,
		inFlight:       semaphore.NewWeighted(int64(maxInFlight)),
	}
}

func (s *Service) complete(ctx context.Context, endpoint, apiKey string, messages []models.Message) (completion.Result, error) {
	if s.inFlight != nil {
		if err := s.inFlight.Acquire(ctx, 1); err != nil {
			return completion.Result{}, errors.Wrap(err, "wait for completion slot")
		}
		defer s.inFlight.Release(1)
	}

	start := time.Now()
	result, err := s.Completion.Complete(ctx, apiKey, messages)

	status := http.StatusOK
	if err != nil {
		status = 0
		var statusErr *completion.StatusError
		if errors.As(err, &statusErr) {
			status = statusErr.StatusCode
		}
	}
	metrics.ObserveUpstream(endpoint, status, time.Since(start))

	return result, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
