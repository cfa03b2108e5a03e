package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gothiabil/bilgateway/metrics"
	"github.com/gothiabil/bilgateway/models"
	"github.com/gothiabil/bilgateway/service"
	log "github.com/sirupsen/logrus"
	"github.com/thedevsaddam/govalidator"
)

const maxBodyBytes = 1 << 20

// decodeErrorKey is where govalidator reports a body that could not be decoded.
const decodeErrorKey = "_error"

// StatusFor maps a gateway error kind to the HTTP status of the ad endpoint.
func StatusFor(kind service.Kind) int {
	switch kind {
	case service.KindMissingCredential, service.KindInvalidRequest:
		return http.StatusBadRequest
	case service.KindInvalidCredential:
		return http.StatusUnauthorized
	case service.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func WriteJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		log.WithError(err).Warn("write response")
	}
}

func ReturnHttpError(rw http.ResponseWriter, endpoint string, status int, kind service.Kind, message string) {
	metrics.RecordRequest(endpoint, string(kind))
	WriteJSON(rw, status, models.ErrorResponse{Error: message, Code: string(kind)})
}

func ReturnHttpValidationError(rw http.ResponseWriter, endpoint, message string, e url.Values) {
	metrics.RecordRequest(endpoint, string(service.KindInvalidRequest))
	log.WithFields(log.Fields{"endpoint": endpoint, "validationError": e}).Warn("invalid request body")
	WriteJSON(rw, http.StatusBadRequest, models.ErrorResponse{
		Error:           message,
		Code:            string(service.KindInvalidRequest),
		ValidationError: e,
	})
}

// validateJSON decodes the body into data and checks rules. decodeErr is set when the
// body is not valid JSON; violations holds rule failures otherwise.
func validateJSON(rw http.ResponseWriter, r *http.Request, data interface{}, rules govalidator.MapData) (decodeErr string, violations url.Values) {
	r.Body = http.MaxBytesReader(rw, r.Body, maxBodyBytes)
	opts := govalidator.Options{
		Request: r,
		Data:    data,
		Rules:   rules,
	}
	e := govalidator.New(opts).ValidateJSON()
	if len(e) == 0 {
		return "", nil
	}
	if msg := e.Get(decodeErrorKey); msg != "" {
		return msg, nil
	}
	return "", e
}
