package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gothiabil/bilgateway/http_server/controllers"
	"github.com/gothiabil/bilgateway/service"
)

func ResearchRoute(router *mux.Router, s service.Service) {
	router.HandleFunc("/car-research", controllers.CarResearch(s)).Methods(http.MethodPost, http.MethodOptions)
}
