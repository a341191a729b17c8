package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"resume-intake/internal/catalog"
	"resume-intake/internal/domain"
)

const maxRequestBodyBytes = 64 * 1024

const (
	SourcePicker = "picker"
	SourceDrop   = "drop"
)

// SessionService is satisfied by the in-process registry and by the Temporal
// backed intake client.
type SessionService interface {
	Open(ctx context.Context) (string, domain.IntakeState, error)
	Submit(ctx context.Context, sessionID string, file domain.CandidateFile) (domain.IntakeState, error)
	Reset(ctx context.Context, sessionID string) (domain.IntakeState, error)
	State(ctx context.Context, sessionID string) (domain.IntakeState, error)
	Close(ctx context.Context, sessionID string) error
}

type ReadinessFunc func(ctx context.Context) error

type Handler struct {
	sessions SessionService
	ready    ReadinessFunc
	logger   *zap.Logger
}

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	State     domain.IntakeState `json:"state"`
	Message   string             `json:"message,omitempty"`
}

type matchesResponse struct {
	SessionID string          `json:"session_id"`
	Results   catalog.Results `json:"results"`
}

// submitFileRequest carries declared metadata only. The file picker and drag
// and drop paths both post this shape and differ only in Source.
type submitFileRequest struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	ByteSize  *int64 `json:"byte_size"`
	Source    string `json:"source,omitempty"`
}

func NewHandler(sessions SessionService, ready ReadinessFunc, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, ready: ready, logger: logger}
}

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sessionID, st, err := h.sessions.Open(ctx)
	if err != nil {
		h.writeServiceError(w, err, "failed to open session")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID, State: st})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	st, err := h.sessions.State(ctx, sessionID)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: st, Message: st.Reason.Message()})
}

func (h *Handler) SubmitFile(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req submitFileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	switch req.Source {
	case "", SourcePicker, SourceDrop:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "source must be picker or drop"})
		return
	}
	if req.ByteSize == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "byte_size is required"})
		return
	}
	if *req.ByteSize < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "byte_size must not be negative"})
		return
	}

	file := domain.CandidateFile{Name: req.Name, MediaType: req.MediaType, ByteSize: *req.ByteSize}
	st, err := h.sessions.Submit(ctx, sessionID, file)
	if err != nil {
		h.writeServiceError(w, err, "failed to submit file")
		return
	}

	resp := sessionResponse{SessionID: sessionID, State: st, Message: st.Reason.Message()}
	if st.Status == domain.StatusRejected {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) ResetFile(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	st, err := h.sessions.Reset(ctx, sessionID)
	if err != nil {
		h.writeServiceError(w, err, "failed to reset session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: st})
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.sessions.Close(ctx, sessionID); err != nil {
		h.writeServiceError(w, err, "failed to close session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	st, err := h.sessions.State(ctx, sessionID)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch session")
		return
	}
	if st.Status != domain.StatusComplete {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "resume upload is not complete", "status": st.Status})
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse{SessionID: sessionID, Results: catalog.MockResults()})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "session not found"})
		return
	}
	h.logger.Error(msg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
