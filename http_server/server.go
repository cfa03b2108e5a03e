package http_server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gothiabil/bilgateway/config"
	"github.com/gothiabil/bilgateway/http_server/middleware"
	"github.com/gothiabil/bilgateway/http_server/routes"
	"github.com/gothiabil/bilgateway/service"
)

// NewRouter mounts the gateway endpoints. CORS sits inside Recover so error
// answers stay readable from the browser; rate limiting covers the API routes only.
func NewRouter(s service.Service, cfg config.Config) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(middleware.Recover, middleware.CORS, middleware.AccessLog)

	routes.HealthRoute(router)

	api := router.NewRoute().Subrouter()
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, cfg.TrustProxy))
	routes.AdRoute(api, s)
	routes.ResearchRoute(api, s)

	return router
}

// HandleRequests builds the HTTP server. The write timeout leaves room for the
// slowest allowed completion call.
func HandleRequests(s service.Service, cfg config.Config) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%v", cfg.Port),
		Handler:           NewRouter(s, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Timeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
