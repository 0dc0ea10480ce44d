package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/Sopno181818/chor-game/internal/app"
	"github.com/Sopno181818/chor-game/internal/domain"
)

// Response is a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// TableResponse is the response for getting table info.
type TableResponse struct {
	Code         string              `json:"code"`
	Phase        string              `json:"phase"`
	RoundsPlayed int                 `json:"roundsPlayed"`
	MaxRounds    int                 `json:"maxRounds"`
	Players      []domain.ScoreEntry `json:"players"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.hub.Stats())
}

// handleTable handles GET /api/tables/{code}.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_TABLE_CODE", "Table code is required")
		return
	}

	info, err := s.hub.TableInfo(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			s.sendError(w, http.StatusNotFound, "TABLE_NOT_FOUND", "Table not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	s.sendSuccess(w, tableResponse(info))
}

// handleInviteQR handles GET /api/invite/qr. It renders the join URL
// as a PNG QR code so a running game can be shared with a phone scan.
func (s *Server) handleInviteQR(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	inviteURL := scheme + "://" + r.Host + "/"

	size := 256
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			size = parsed
		}
	}
	if size < 128 {
		size = 128
	}
	if size > 1024 {
		size = 1024
	}

	png, err := qrcode.Encode(inviteURL, qrcode.Medium, size)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func tableResponse(info app.TableInfo) *TableResponse {
	return &TableResponse{
		Code:         info.Code,
		Phase:        string(info.Phase),
		RoundsPlayed: info.RoundsPlayed,
		MaxRounds:    info.MaxRounds,
		Players:      info.Players,
	}
}

// sendSuccess sends a successful JSON response.
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response.
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
