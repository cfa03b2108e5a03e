package controllers

import (
	"net/http"

	"github.com/gothiabil/bilgateway/metrics"
	"github.com/gothiabil/bilgateway/models"
	"github.com/gothiabil/bilgateway/service"
	log "github.com/sirupsen/logrus"
	"github.com/thedevsaddam/govalidator"
)

// researchStatus keeps every failure except a malformed history on 500; the
// caller only ever sees the fallback message.
func researchStatus(kind service.Kind) int {
	if kind == service.KindInvalidRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func CarResearch(s service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var body models.ResearchRequest
		rules := govalidator.MapData{
			"messages": []string{"required"},
		}
		decodeErr, violations := validateJSON(rw, r, &body, rules)
		if decodeErr != "" {
			log.WithField("endpoint", service.EndpointResearch).WithField("error", decodeErr).Error("cannot decode request")
			ReturnHttpError(rw, service.EndpointResearch, http.StatusInternalServerError, service.KindInternal, service.MsgResearchFallback)
			return
		}
		if len(violations) != 0 {
			ReturnHttpValidationError(rw, service.EndpointResearch, service.MsgResearchFallback, violations)
			return
		}

		answer, err := s.Research(r.Context(), body.Messages)
		if err != nil {
			kind := service.KindOf(err)
			ReturnHttpError(rw, service.EndpointResearch, researchStatus(kind), kind, service.MessageOf(err))
			return
		}

		metrics.RecordRequest(service.EndpointResearch, "ok")
		WriteJSON(rw, http.StatusOK, models.ResearchResponse{Response: answer})
	}
}
