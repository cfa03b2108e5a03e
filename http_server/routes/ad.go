package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gothiabil/bilgateway/http_server/controllers"
	"github.com/gothiabil/bilgateway/service"
)

func AdRoute(router *mux.Router, s service.Service) {
	router.HandleFunc("/generate-ad", controllers.GenerateAd(s)).Methods(http.MethodPost, http.MethodOptions)
}
