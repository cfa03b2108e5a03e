package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gothiabil/bilgateway/http_server/controllers"
	"github.com/gothiabil/bilgateway/metrics"
)

func HealthRoute(router *mux.Router) {
	router.HandleFunc("/health", controllers.Health()).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
}
