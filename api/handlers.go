package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/conversalabs/conversa/internal/pipeline"
	"github.com/conversalabs/conversa/internal/stats"
	"github.com/conversalabs/conversa/pkg/models"
)

// maxRequestBody caps ad-hoc analysis payloads at 4 MiB.
const maxRequestBody = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"version":     s.version,
			"state":       s.orch.State(),
			"transcripts": s.orch.TranscriptCount(),
			"time":        time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.orch.SummaryStats(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    summary,
	})
}

// TablePage is the response body for GET /api/v1/table.
type TablePage struct {
	Rows    interface{} `json:"rows"`
	Page    int         `json:"page"`
	Size    int         `json:"size"`
	Total   int         `json:"total"`
	Lengths stats.Basic `json:"message_length_stats"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 500 {
		size = 50
	}

	rows, total, err := s.orch.Table(size, (page-1)*size)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	lengths := make([]float64, len(rows))
	for i, r := range rows {
		lengths[i] = float64(r.MessageLength)
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: TablePage{
			Rows:    rows,
			Page:    page,
			Size:    size,
			Total:   total,
			Lengths: stats.BasicStats(lengths),
		},
	})
}

func (s *Server) handleAgentStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.orch.SummaryStats(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    summary.AgentStats,
	})
}

func (s *Server) handleArticleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.orch.SummaryStats(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    summary.ArticleStats,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := s.orch.Analyze(r.Context(), body)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	// Broadcast to WebSocket clients
	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"article_url":    result.ArticleURL,
			"total_messages": result.TotalMessages,
			"dynamic":        result.SentimentDistribution,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

// TransformResponse is the body for POST /api/v1/transform: the
// flattened rows plus the full analysis of the same transcript.
type TransformResponse struct {
	Shape     pipeline.InputShape        `json:"input_shape"`
	Processed interface{}                `json:"processed"`
	Analysis  *models.TranscriptAnalysis `json:"analysis"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	rows, analysis, shape, err := s.orch.TransformRawInput(r.Context(), body)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "transform_complete",
		Data: map[string]interface{}{"rows": len(rows), "shape": shape},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: TransformResponse{
			Shape:     shape,
			Processed: rows,
			Analysis:  analysis,
		},
	})
}

// writePipelineError maps pipeline error families onto HTTP statuses:
// validation failures are the client's fault, a not-yet-loaded dataset
// is temporary, everything else is a 500.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
