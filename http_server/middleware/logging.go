package middleware

import (
	"net/http"
	"time"

	"github.com/gothiabil/bilgateway/http_server/controllers"
	"github.com/gothiabil/bilgateway/models"
	"github.com/gothiabil/bilgateway/service"
	log "github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
			"client":   ClientIP(r, false),
		}).Debug("request served")
	})
}

// Recover answers a panicking handler with a 500 so no request is left hanging.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.WithFields(log.Fields{"path": r.URL.Path, "panic": p}).Error("handler panicked")
				controllers.WriteJSON(rw, http.StatusInternalServerError, models.ErrorResponse{
					Error: service.MsgUnknown,
					Code:  string(service.KindInternal),
				})
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
