package controllers

import (
	"net/http"

	"github.com/gothiabil/bilgateway/metrics"
	"github.com/gothiabil/bilgateway/models"
	"github.com/gothiabil/bilgateway/service"
	log "github.com/sirupsen/logrus"
	"github.com/thedevsaddam/govalidator"
)

func GenerateAd(s service.Service) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		// 1.0 parse request body
		var body models.GenerateAdRequest
		rules := govalidator.MapData{
			"apiKey":       []string{"max:512"},
			"systemPrompt": []string{"max:20000"},
		}
		decodeErr, violations := validateJSON(rw, r, &body, rules)
		if decodeErr != "" {
			log.WithField("endpoint", service.EndpointGenerateAd).WithField("error", decodeErr).Error("cannot decode request")
			ReturnHttpError(rw, service.EndpointGenerateAd, http.StatusInternalServerError, service.KindInternal, decodeErr)
			return
		}
		if len(violations) != 0 {
			ReturnHttpValidationError(rw, service.EndpointGenerateAd, service.MsgInvalidRequest, violations)
			return
		}

		// 2.0 render and call the provider
		ad, err := s.GenerateAd(r.Context(), body)
		if err != nil {
			kind := service.KindOf(err)
			ReturnHttpError(rw, service.EndpointGenerateAd, StatusFor(kind), kind, service.MessageOf(err))
			return
		}

		metrics.RecordRequest(service.EndpointGenerateAd, "ok")
		WriteJSON(rw, http.StatusOK, models.GenerateAdResponse{GeneratedAd: ad})
	}
}
