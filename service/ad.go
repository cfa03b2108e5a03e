package service

import (
	"context"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gothiabil/bilgateway/completion"
	"github.com/gothiabil/bilgateway/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// GenerateAd renders the ad prompt and asks the provider for one completion. The
// instruction template and key are forwarded as received; an empty key fails before
// any outbound call is made.
func (s *Service) GenerateAd(ctx context.Context, req models.GenerateAdRequest) (string, error) {
	logger := log.WithFields(log.Fields{
		"endpoint": EndpointGenerateAd,
		"brand":    req.FormData.Brand,
		"model":    req.FormData.Model,
	})
	logger.Info("generating ad")

	if req.APIKey == "" {
		logger.Warn("request without api key")
		return "", newError(KindMissingCredential, MsgMissingCredential, nil)
	}

	messages := []models.Message{
		{Role: models.RoleSystem, Content: req.SystemPrompt},
		{Role: models.RoleUser, Content: RenderAdPrompt(req.FormData)},
	}

	result, err := s.complete(ctx, EndpointGenerateAd, req.APIKey, messages)
	if err != nil {
		gwErr := classifyAdError(err)
		entry := logger.WithError(err).WithField("kind", gwErr.Kind)
		var statusErr *completion.StatusError
		if errors.As(err, &statusErr) {
			entry = entry.WithFields(log.Fields{"status": statusErr.StatusCode, "body": truncate(statusErr.Body, 512)})
		}
		entry.Error("ad generation failed")
		return "", gwErr
	}

	logger.WithField("size", humanize.Bytes(uint64(result.Size))).Info("ad generated")
	return result.Content, nil
}

func classifyAdError(err error) *Error {
	var statusErr *completion.StatusError
	if !errors.As(err, &statusErr) {
		return internalError(err)
	}
	switch statusErr.StatusCode {
	case http.StatusUnauthorized:
		return newError(KindInvalidCredential, MsgInvalidCredential, err)
	case http.StatusTooManyRequests:
		return newError(KindRateLimited, MsgRateLimited, err)
	default:
		return newError(KindUpstream, MsgUpstream, err)
	}
}
