package service

import (
	"context"

	"github.com/gothiabil/bilgateway/completion"
	"github.com/gothiabil/bilgateway/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

var chatRoles = []string{models.RoleUser, models.RoleAssistant}

// Research forwards the caller's full conversation history as is. Every failure
// carries the same fallback message, and any failure of the outbound call, status or
// transport, is an upstream error.
func (s *Service) Research(ctx context.Context, history []models.Message) (string, error) {
	logger := log.WithFields(log.Fields{
		"endpoint": EndpointResearch,
		"messages": len(history),
	})

	if len(history) == 0 {
		return "", newError(KindInvalidRequest, MsgResearchFallback, errors.New("empty conversation"))
	}
	for i, m := range history {
		if !slices.Contains(chatRoles, m.Role) {
			return "", newError(KindInvalidRequest, MsgResearchFallback, errors.Errorf("message %d has role %q", i, m.Role))
		}
	}
	if s.ResearchAPIKey == "" {
		logger.Error("research api key is not configured")
		return "", newError(KindMissingCredential, MsgResearchFallback, nil)
	}

	result, err := s.complete(ctx, EndpointResearch, s.ResearchAPIKey, history)
	if err != nil {
		entry := logger.WithError(err)
		var statusErr *completion.StatusError
		if errors.As(err, &statusErr) {
			entry = entry.WithFields(log.Fields{"status": statusErr.StatusCode, "body": truncate(statusErr.Body, 512)})
		}
		entry.WithField("kind", KindUpstream).Error("research failed")
		return "", newError(KindUpstream, MsgResearchFallback, err)
	}

	logger.Debug("research answered")
	return result.Content, nil
}
