package controllers

import (
	"net/http"
)

func Health() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		WriteJSON(rw, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "bilgateway",
		})
	}
}
