package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/medsift/medsift/internal/common"
	"github.com/medsift/medsift/internal/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleStatus reports the pipeline version, thresholds and table sizes.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"pipeline_version":                Version,
		"processing_confidence_threshold": s.cfg.ProcessingConfidenceThreshold,
		"min_amount_value":                s.cfg.MinAmountValue.String(),
		"max_amount_value":                s.cfg.MaxAmountValue.String(),
		"taxonomy_entries":                len(s.cfg.Taxonomy),
		"currencies":                      len(s.cfg.Currencies),
	})
}

// extractHandler serves one pipeline (full or direct). The body is either a
// JSON request or bare text; the response is always a PipelineResult.
func (s *Server) extractHandler(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := decodeRequest(r)
		if err != nil {
			slog.Error("bad extraction request", "error", err)
			http.Error(w, "could not read request body", http.StatusBadRequest)
			return
		}

		requestID := uuid.NewString()
		if err := p.ValidateInput(req.Text); err != nil {
			var userErr *common.UserError
			msg := "invalid input"
			if errors.As(err, &userErr) {
				msg = userErr.UserMessage
			}
			slog.Warn("rejected extraction request", "request_id", requestID, "error", err)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		result := p.Process(r.Context(), req)
		slog.Info("extraction request served",
			"request_id", requestID,
			"status", result.Status,
			"amounts", len(result.Amounts))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			slog.Error("encoding response", "request_id", requestID, "error", err)
		}
	}
}

func decodeRequest(r *http.Request) (pipeline.Request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return pipeline.Request{}, err
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req pipeline.Request
		if err := json.Unmarshal(body, &req); err != nil {
			return pipeline.Request{}, err
		}
		return req, nil
	}

	// Anything else is treated as raw bill text.
	return pipeline.Request{Text: string(body)}, nil
}
