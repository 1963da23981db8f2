package server

import (
	"net/http"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /model/info", s.handleModelInfo)

	mux.HandleFunc("POST /estimate", s.handleEstimate)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /train", s.handleTrain)
	mux.HandleFunc("POST /score", s.handleScore)

	return mux
}
