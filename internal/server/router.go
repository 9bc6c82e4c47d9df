package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the API routes. When shell is non-nil the offline
// cache controller catches everything the API does not claim.
func NewRouter(s *Server, shell http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.healthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.statusHandler).Methods("GET")
	api.HandleFunc("/readings", s.listReadingsHandler).Methods("GET")
	api.HandleFunc("/readings", s.createReadingHandler).Methods("POST")
	api.HandleFunc("/readings/{id}", s.updateReadingHandler).Methods("PUT")
	api.HandleFunc("/readings/{id}", s.deleteReadingHandler).Methods("DELETE")
	api.HandleFunc("/summary", s.summaryHandler).Methods("GET")
	api.HandleFunc("/chart", s.chartHandler).Methods("GET")
	api.HandleFunc("/export", s.exportHandler).Methods("GET")

	if shell != nil {
		r.PathPrefix("/").Handler(shell)
	}

	return r
}
