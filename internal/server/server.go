// Package server exposes the extraction pipeline over HTTP. Transport
// concerns stop here: the pipeline itself always answers with a well-formed
// result, so handlers only translate bodies and never surface stage faults
// as HTTP errors.
package server

import (
	"net/http"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/pipeline"
)

// Version identifies the pipeline contract served by this process.
const Version = "1.0.0"

// Server routes extraction requests to the full and direct pipelines.
type Server struct {
	full   *pipeline.Pipeline
	direct *pipeline.Pipeline
	mux    *http.ServeMux
	cfg    config.Config
}

// New creates a Server with a default mux.
func New(cfg config.Config, full, direct *pipeline.Pipeline) *Server {
	return NewWithMux(cfg, full, direct, http.NewServeMux())
}

// NewWithMux creates a Server with a custom mux for testing.
func NewWithMux(cfg config.Config, full, direct *pipeline.Pipeline, mux *http.ServeMux) *Server {
	s := &Server{
		cfg:    cfg,
		full:   full,
		direct: direct,
		mux:    mux,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/v1/status", s.handleStatus)
	s.mux.HandleFunc("/v1/extract", s.extractHandler(s.full))
	s.mux.HandleFunc("/v1/extract/direct", s.extractHandler(s.direct))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
